package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/leadsite-api/internal/database"
	"github.com/leadsite-api/internal/models"
)

const testimonialColumns = `id, name, testimonial_text, video_filename, video_url, has_video, status, uploaded_at, approved_at, updated_at`

// testimonialPGRepo is the postgres implementation of TestimonialRepository
type testimonialPGRepo struct {
	db *database.DB
}

// NewTestimonialPGRepo creates a new testimonial repository
func NewTestimonialPGRepo(db *database.DB) TestimonialRepository {
	return &testimonialPGRepo{db: db}
}

// Create inserts a new testimonial
func (r *testimonialPGRepo) Create(ctx context.Context, t *models.Testimonial) error {
	query := `
		INSERT INTO testimonials (` + testimonialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.TestimonialText, t.VideoFilename, t.VideoURL, t.HasVideo,
		string(t.Status), t.UploadedAt, t.ApprovedAt, t.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateID
	}
	return err
}

// GetByID retrieves a testimonial by ID
func (r *testimonialPGRepo) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1`

	t, err := scanTestimonial(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByStatus returns testimonials in one moderation state, newest first
func (r *testimonialPGRepo) ListByStatus(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE status = $1 ORDER BY uploaded_at DESC`
	return r.list(ctx, query, string(status))
}

// ListAll returns every testimonial, newest first
func (r *testimonialPGRepo) ListAll(ctx context.Context) ([]*models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY uploaded_at DESC`
	return r.list(ctx, query)
}

func (r *testimonialPGRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns of a testimonial
func (r *testimonialPGRepo) Update(ctx context.Context, t *models.Testimonial) error {
	query := `
		UPDATE testimonials
		SET name = $2, testimonial_text = $3, video_filename = $4, video_url = $5,
		    has_video = $6, status = $7, approved_at = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.TestimonialText, t.VideoFilename, t.VideoURL,
		t.HasVideo, string(t.Status), t.ApprovedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a testimonial
func (r *testimonialPGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Count returns the number of testimonials with the given status
func (r *testimonialPGRepo) Count(ctx context.Context, status models.TestimonialStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM testimonials WHERE status = $1`, string(status)).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTestimonial(row rowScanner) (*models.Testimonial, error) {
	var t models.Testimonial
	var status string
	var approvedAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID, &t.Name, &t.TestimonialText, &t.VideoFilename, &t.VideoURL,
		&t.HasVideo, &status, &t.UploadedAt, &approvedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = models.TestimonialStatus(status)
	if approvedAt.Valid {
		t.ApprovedAt = &approvedAt.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
