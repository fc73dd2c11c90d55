package repository

import (
	"context"
	"errors"

	"github.com/leadsite-api/internal/database"
	"github.com/leadsite-api/internal/models"
)

var (
	// ErrNotFound is returned by Update/Delete when no record has the given id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// TestimonialRepository defines the interface for testimonial data operations
type TestimonialRepository interface {
	Create(ctx context.Context, t *models.Testimonial) error
	GetByID(ctx context.Context, id string) (*models.Testimonial, error)
	ListByStatus(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error)
	ListAll(ctx context.Context) ([]*models.Testimonial, error)
	Update(ctx context.Context, t *models.Testimonial) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status models.TestimonialStatus) (int, error)
}

// DealLocationRepository defines the interface for deal location data operations
type DealLocationRepository interface {
	Create(ctx context.Context, loc *models.DealLocation) error
	GetByID(ctx context.Context, id string) (*models.DealLocation, error)
	List(ctx context.Context) ([]*models.DealLocation, error)
	UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Testimonial  TestimonialRepository
	DealLocation DealLocationRepository
}

// NewJSON creates repositories backed by JSON documents in dir
func NewJSON(dir string) *Repositories {
	return &Repositories{
		Testimonial:  NewTestimonialJSONRepo(dir),
		DealLocation: NewDealLocationJSONRepo(dir),
	}
}

// NewPostgres creates repositories with the given database connection
func NewPostgres(db *database.DB) *Repositories {
	return &Repositories{
		Testimonial:  NewTestimonialPGRepo(db),
		DealLocation: NewDealLocationPGRepo(db),
	}
}
