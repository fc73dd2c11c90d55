package repository

import (
	"context"
	"path/filepath"

	"github.com/leadsite-api/internal/jsonstore"
	"github.com/leadsite-api/internal/models"
)

// DealLocationsFile is the document name inside the upload directory.
const DealLocationsFile = "deal-locations.json"

// dealLocationJSONRepo stores deal pins in a single JSON array document
type dealLocationJSONRepo struct {
	doc *jsonstore.Document[*models.DealLocation]
}

// NewDealLocationJSONRepo creates a repository over <dir>/deal-locations.json
func NewDealLocationJSONRepo(dir string) DealLocationRepository {
	return &dealLocationJSONRepo{
		doc: jsonstore.New[*models.DealLocation](filepath.Join(dir, DealLocationsFile)),
	}
}

// Create appends a location, refusing an id that is already present
func (r *dealLocationJSONRepo) Create(ctx context.Context, loc *models.DealLocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.doc.Update(func(items []*models.DealLocation) ([]*models.DealLocation, error) {
		for _, existing := range items {
			if existing.ID == loc.ID {
				return nil, ErrDuplicateID
			}
		}
		c := *loc
		return append(items, &c), nil
	})
}

// GetByID retrieves a location by ID, nil when absent
func (r *dealLocationJSONRepo) GetByID(ctx context.Context, id string) (*models.DealLocation, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range items {
		if loc.ID == id {
			return loc, nil
		}
	}
	return nil, nil
}

// List returns all locations in stored order
func (r *dealLocationJSONRepo) List(ctx context.Context) ([]*models.DealLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.doc.Read()
}

// UpdateName renames a location and returns the updated record
func (r *dealLocationJSONRepo) UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated *models.DealLocation
	err := r.doc.Update(func(items []*models.DealLocation) ([]*models.DealLocation, error) {
		for _, existing := range items {
			if existing.ID == id {
				existing.Name = name
				c := *existing
				updated = &c
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a location
func (r *dealLocationJSONRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.doc.Update(func(items []*models.DealLocation) ([]*models.DealLocation, error) {
		for i, existing := range items {
			if existing.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

// Count returns the number of stored locations
func (r *dealLocationJSONRepo) Count(ctx context.Context) (int, error) {
	items, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
