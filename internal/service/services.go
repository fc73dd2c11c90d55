package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/mailer"
	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
)

// ErrNotFound is returned when an id does not name a record in the expected state
var ErrNotFound = errors.New("not found")

// VideoUpload is an optional file accompanying a testimonial
type VideoUpload struct {
	Reader   io.Reader
	Filename string
}

// TestimonialService defines the interface for testimonial moderation
type TestimonialService interface {
	Submit(ctx context.Context, sub *models.TestimonialSubmission, video *VideoUpload) (*models.Testimonial, error)
	List(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error)
	Approve(ctx context.Context, id string) (*models.Testimonial, error)
	Reject(ctx context.Context, id string) error
	Edit(ctx context.Context, id string, update *models.TestimonialUpdate) (*models.Testimonial, error)
	DeleteVideo(ctx context.Context, id string) (*models.Testimonial, error)
	DeleteText(ctx context.Context, id string) (*models.Testimonial, error)
}

// DealLocationService defines the interface for deal map pins
type DealLocationService interface {
	Add(ctx context.Context, req *models.DealLocationRequest) (*models.DealLocation, error)
	List(ctx context.Context) ([]*models.DealLocation, error)
	Get(ctx context.Context, id string) (*models.DealLocation, error)
	UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error)
	Delete(ctx context.Context, id string) error
}

// OfferService defines the interface for mailed form submissions
type OfferService interface {
	SubmitOffer(ctx context.Context, offer *models.OfferSubmission) (*models.SubmissionReceipt, error)
	SubmitContact(ctx context.Context, contact *models.ContactSubmission) (*models.SubmissionReceipt, error)
}

// SweeperService defines the interface for the orphaned media processor
type SweeperService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	SweepOnce(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Testimonial  TestimonialService
	DealLocation DealLocationService
	Offer        OfferService
	Sweeper      SweeperService
}

// Deps are the collaborators shared by the services
type Deps struct {
	Repos   *repository.Repositories
	Media   *media.Store
	Mailer  mailer.Mailer
	Metrics metrics.Provider
}

// NewServices creates all services
func NewServices(deps *Deps, cfg *config.Config, log zerolog.Logger) *Services {
	m := deps.Metrics
	if m == nil {
		m = metrics.Noop()
	}

	moderation := &sync.Mutex{}

	return &Services{
		Testimonial:  newTestimonialService(deps.Repos.Testimonial, deps.Media, m, moderation, log),
		DealLocation: newDealLocationService(deps.Repos.DealLocation, m, log),
		Offer:        newOfferService(deps.Mailer, &cfg.Mail, m, log),
		Sweeper:      newSweeperService(deps.Repos.Testimonial, deps.Media, &cfg.Storage, m, moderation, log),
	}
}
