package repository

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/leadsite-api/internal/jsonstore"
	"github.com/leadsite-api/internal/models"
)

// TestimonialsFile is the document name inside the upload directory.
const TestimonialsFile = "testimonials.json"

// testimonialJSONRepo stores testimonials in a single JSON array document
type testimonialJSONRepo struct {
	doc *jsonstore.Document[*models.Testimonial]
}

// NewTestimonialJSONRepo creates a repository over <dir>/testimonials.json
func NewTestimonialJSONRepo(dir string) TestimonialRepository {
	return &testimonialJSONRepo{
		doc: jsonstore.New[*models.Testimonial](filepath.Join(dir, TestimonialsFile)),
	}
}

// Create appends a testimonial
func (r *testimonialJSONRepo) Create(ctx context.Context, t *models.Testimonial) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.doc.Update(func(items []*models.Testimonial) ([]*models.Testimonial, error) {
		for _, existing := range items {
			if existing.ID == t.ID {
				return nil, ErrDuplicateID
			}
		}
		return append(items, t.Clone()), nil
	})
}

// GetByID retrieves a testimonial by ID, nil when absent
func (r *testimonialJSONRepo) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := r.doc.Read()
	if err != nil {
		return nil, err
	}
	for _, t := range items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

// ListByStatus returns testimonials in one moderation state, newest first
func (r *testimonialJSONRepo) ListByStatus(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Testimonial, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListAll returns every testimonial, newest first
func (r *testimonialJSONRepo) ListAll(ctx context.Context) ([]*models.Testimonial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := r.doc.Read()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UploadedAt.After(items[j].UploadedAt)
	})
	return items, nil
}

// Update replaces the stored record with the same ID
func (r *testimonialJSONRepo) Update(ctx context.Context, t *models.Testimonial) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.doc.Update(func(items []*models.Testimonial) ([]*models.Testimonial, error) {
		for i, existing := range items {
			if existing.ID == t.ID {
				items[i] = t.Clone()
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

// Delete removes a testimonial
func (r *testimonialJSONRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.doc.Update(func(items []*models.Testimonial) ([]*models.Testimonial, error) {
		for i, existing := range items {
			if existing.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

// Count returns the number of testimonials with the given status
func (r *testimonialJSONRepo) Count(ctx context.Context, status models.TestimonialStatus) (int, error) {
	items, err := r.ListByStatus(ctx, status)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
