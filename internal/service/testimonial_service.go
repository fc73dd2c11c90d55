package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
	"github.com/leadsite-api/internal/validation"
)

// testimonialService is the concrete implementation of TestimonialService
type testimonialService struct {
	repo    repository.TestimonialRepository
	media   *media.Store
	metrics metrics.Provider
	log     zerolog.Logger

	// mu serialises moderation so a record changes state exactly once.
	// The sweeper holds it while deciding which files are orphaned.
	mu *sync.Mutex
}

func newTestimonialService(repo repository.TestimonialRepository, store *media.Store, m metrics.Provider, moderation *sync.Mutex, log zerolog.Logger) *testimonialService {
	return &testimonialService{
		repo:    repo,
		media:   store,
		metrics: m,
		mu:      moderation,
		log:     log.With().Str("service", "testimonial").Logger(),
	}
}

// Submit stores an optional video in the pending directory and records a
// pending testimonial pointing at it.
func (s *testimonialService) Submit(ctx context.Context, sub *models.TestimonialSubmission, video *VideoUpload) (*models.Testimonial, error) {
	if err := validation.ValidateTestimonial(sub, video != nil); err != nil {
		return nil, err
	}

	t := &models.Testimonial{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(sub.Name),
		TestimonialText: strings.TrimSpace(sub.TestimonialText),
		Status:          models.TestimonialStatusPending,
		UploadedAt:      time.Now().UTC(),
	}

	if video != nil {
		saved, err := s.media.SavePending(video.Reader, video.Filename)
		if err != nil {
			return nil, err
		}
		t.VideoFilename = saved.Filename
		t.VideoURL = s.media.URL(models.TestimonialStatusPending, saved.Filename)
		t.HasVideo = true
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if t.HasVideo {
			s.removeFile(models.TestimonialStatusPending, t.VideoFilename)
		}
		return nil, fmt.Errorf("failed to save testimonial: %w", err)
	}

	s.log.Info().
		Str("testimonial_id", t.ID).
		Bool("has_video", t.HasVideo).
		Msg("Testimonial submitted for review")
	s.refreshGauges(ctx)

	return t, nil
}

// List returns testimonials in one moderation state, newest first
func (s *testimonialService) List(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error) {
	if !status.Valid() {
		return nil, validation.Errors{{Field: "status", Message: "must be pending or approved"}}
	}
	items, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s testimonials: %w", status, err)
	}
	return items, nil
}

// Approve moves the video to the approved directory and flips the status.
// Only pending testimonials can be approved.
func (s *testimonialService) Approve(ctx context.Context, id string) (*models.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TestimonialStatusPending {
		return nil, ErrNotFound
	}

	if t.HasVideo {
		err := s.media.Promote(t.VideoFilename)
		switch {
		case err == nil:
			t.VideoURL = s.media.URL(models.TestimonialStatusApproved, t.VideoFilename)
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, media.ErrInvalidFilename):
			s.log.Warn().
				Str("testimonial_id", id).
				Str("file", t.VideoFilename).
				Msg("Pending video missing, approving without video")
			t.StripVideo()
		default:
			return nil, fmt.Errorf("failed to move video: %w", err)
		}
	}

	now := time.Now().UTC()
	t.Status = models.TestimonialStatusApproved
	t.ApprovedAt = &now

	if err := s.repo.Update(ctx, t); err != nil {
		if t.HasVideo {
			s.rollbackPromote(t.VideoFilename)
		}
		return nil, s.mapRepoErr(err, "approve")
	}

	s.log.Info().Str("testimonial_id", id).Bool("has_video", t.HasVideo).Msg("Testimonial approved")
	s.metrics.IncModeration("approve")
	s.refreshGauges(ctx)

	return t, nil
}

// Reject removes the record. The video is deleted best-effort.
func (s *testimonialService) Reject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoErr(err, "reject")
	}
	if t.HasVideo {
		s.removeFile(t.Status, t.VideoFilename)
	}

	s.log.Info().Str("testimonial_id", id).Str("status", string(t.Status)).Msg("Testimonial rejected")
	s.metrics.IncModeration("reject")
	s.refreshGauges(ctx)

	return nil
}

// Edit updates name and/or text
func (s *testimonialService) Edit(ctx context.Context, id string, update *models.TestimonialUpdate) (*models.Testimonial, error) {
	if err := validation.ValidateTestimonialUpdate(update); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		t.Name = strings.TrimSpace(*update.Name)
	}
	if update.TestimonialText != nil {
		t.TestimonialText = strings.TrimSpace(*update.TestimonialText)
	}

	if err := s.save(ctx, t, "edit"); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteVideo strips the video and deletes its file best-effort
func (s *testimonialService) DeleteVideo(ctx context.Context, id string) (*models.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.HasVideo {
		return t, nil
	}

	filename := t.VideoFilename
	t.StripVideo()
	if err := s.save(ctx, t, "delete_video"); err != nil {
		return nil, err
	}
	s.removeFile(t.Status, filename)

	return t, nil
}

// DeleteText clears the written testimonial and keeps the rest
func (s *testimonialService) DeleteText(ctx context.Context, id string) (*models.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.TestimonialText == "" {
		return t, nil
	}

	t.TestimonialText = ""
	if err := s.save(ctx, t, "delete_text"); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *testimonialService) get(ctx context.Context, id string) (*models.Testimonial, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load testimonial: %w", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (s *testimonialService) save(ctx context.Context, t *models.Testimonial, action string) error {
	now := time.Now().UTC()
	t.UpdatedAt = &now
	if err := s.repo.Update(ctx, t); err != nil {
		return s.mapRepoErr(err, action)
	}
	s.log.Info().Str("testimonial_id", t.ID).Str("action", action).Msg("Testimonial updated")
	s.metrics.IncModeration(action)
	return nil
}

func (s *testimonialService) mapRepoErr(err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s testimonial: %w", action, err)
}

// rollbackPromote puts a promoted file back when the record could not be saved
func (s *testimonialService) rollbackPromote(filename string) {
	if err := s.media.Demote(filename); err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("Failed to move video back to pending")
	}
}

func (s *testimonialService) removeFile(status models.TestimonialStatus, filename string) {
	if err := s.media.Remove(status, filename); err != nil {
		s.log.Warn().Err(err).Str("file", filename).Msg("Failed to delete video file")
	}
}

func (s *testimonialService) refreshGauges(ctx context.Context) {
	for _, status := range []models.TestimonialStatus{models.TestimonialStatusPending, models.TestimonialStatusApproved} {
		n, err := s.repo.Count(ctx, status)
		if err != nil {
			s.log.Debug().Err(err).Msg("Failed to count testimonials")
			return
		}
		s.metrics.SetTestimonials(string(status), n)
	}
}
