package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/leadsite-api/internal/database"
	"github.com/leadsite-api/internal/models"
)

// dealLocationPGRepo is the postgres implementation of DealLocationRepository
type dealLocationPGRepo struct {
	db *database.DB
}

// NewDealLocationPGRepo creates a new deal location repository
func NewDealLocationPGRepo(db *database.DB) DealLocationRepository {
	return &dealLocationPGRepo{db: db}
}

// Create inserts a new location
func (r *dealLocationPGRepo) Create(ctx context.Context, loc *models.DealLocation) error {
	query := `
		INSERT INTO deal_locations (id, lat, lng, name, city, state, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Lat, loc.Lng, loc.Name, loc.City, loc.State, loc.AddedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateID
	}
	return err
}

// GetByID retrieves a location by ID
func (r *dealLocationPGRepo) GetByID(ctx context.Context, id string) (*models.DealLocation, error) {
	query := `SELECT id, lat, lng, name, city, state, added_at FROM deal_locations WHERE id = $1`

	var loc models.DealLocation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loc.ID, &loc.Lat, &loc.Lng, &loc.Name, &loc.City, &loc.State, &loc.AddedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// List returns all locations in insertion order
func (r *dealLocationPGRepo) List(ctx context.Context) ([]*models.DealLocation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, lat, lng, name, city, state, added_at FROM deal_locations ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.DealLocation, 0)
	for rows.Next() {
		var loc models.DealLocation
		if err := rows.Scan(&loc.ID, &loc.Lat, &loc.Lng, &loc.Name, &loc.City, &loc.State, &loc.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, &loc)
	}
	return out, rows.Err()
}

// UpdateName renames a location and returns the updated record
func (r *dealLocationPGRepo) UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error) {
	query := `
		UPDATE deal_locations SET name = $2 WHERE id = $1
		RETURNING id, lat, lng, name, city, state, added_at
	`
	var loc models.DealLocation
	err := r.db.QueryRowContext(ctx, query, id, name).Scan(
		&loc.ID, &loc.Lat, &loc.Lng, &loc.Name, &loc.City, &loc.State, &loc.AddedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Delete removes a location
func (r *dealLocationPGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deal_locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Count returns the number of stored locations
func (r *dealLocationPGRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deal_locations`).Scan(&count)
	return count, err
}
