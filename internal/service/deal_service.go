package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
	"github.com/leadsite-api/internal/validation"
)

// maxIDAttempts bounds id regeneration on the (practically impossible) collision
const maxIDAttempts = 5

// dealLocationService is the concrete implementation of DealLocationService
type dealLocationService struct {
	repo    repository.DealLocationRepository
	metrics metrics.Provider
	log     zerolog.Logger
	newID   func() string
}

func newDealLocationService(repo repository.DealLocationRepository, m metrics.Provider, log zerolog.Logger) *dealLocationService {
	return &dealLocationService{
		repo:    repo,
		metrics: m,
		log:     log.With().Str("service", "deal_location").Logger(),
		newID:   uuid.NewString,
	}
}

// Add stores a new pin under an id distinct from every existing one
func (s *dealLocationService) Add(ctx context.Context, req *models.DealLocationRequest) (*models.DealLocation, error) {
	if req.Lat == nil || req.Lng == nil {
		var errs validation.Errors
		if req.Lat == nil {
			errs = append(errs, validation.FieldError{Field: "lat", Message: "is required"})
		}
		if req.Lng == nil {
			errs = append(errs, validation.FieldError{Field: "lng", Message: "is required"})
		}
		return nil, errs
	}
	if err := validation.ValidateCoordinates(*req.Lat, *req.Lng); err != nil {
		return nil, err
	}

	loc := &models.DealLocation{
		Lat:     *req.Lat,
		Lng:     *req.Lng,
		Name:    strings.TrimSpace(req.Name),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		AddedAt: time.Now().UTC(),
	}

	for attempt := 1; ; attempt++ {
		loc.ID = s.newID()
		err := s.repo.Create(ctx, loc)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateID) || attempt >= maxIDAttempts {
			return nil, fmt.Errorf("failed to save deal location: %w", err)
		}
		s.log.Warn().Str("location_id", loc.ID).Msg("Deal location id collision, regenerating")
	}

	s.log.Info().
		Str("location_id", loc.ID).
		Float64("lat", loc.Lat).
		Float64("lng", loc.Lng).
		Msg("Deal location added")
	s.refreshGauge(ctx)

	return loc, nil
}

// List returns every pin in insertion order
func (s *dealLocationService) List(ctx context.Context) ([]*models.DealLocation, error) {
	locs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal locations: %w", err)
	}
	return locs, nil
}

// Get returns a single pin
func (s *dealLocationService) Get(ctx context.Context, id string) (*models.DealLocation, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deal location: %w", err)
	}
	if loc == nil {
		return nil, ErrNotFound
	}
	return loc, nil
}

// UpdateName renames a pin. An empty name clears it.
func (s *dealLocationService) UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) > validation.MaxLocationLabelLength {
		return nil, validation.Errors{{
			Field:   "name",
			Message: fmt.Sprintf("must be at most %d characters", validation.MaxLocationLabelLength),
		}}
	}

	loc, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to rename deal location: %w", err)
	}

	s.log.Info().Str("location_id", id).Msg("Deal location renamed")
	return loc, nil
}

// Delete removes a pin
func (s *dealLocationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete deal location: %w", err)
	}

	s.log.Info().Str("location_id", id).Msg("Deal location deleted")
	s.refreshGauge(ctx)
	return nil
}

func (s *dealLocationService) refreshGauge(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to count deal locations")
		return
	}
	s.metrics.SetDealLocations(n)
}
