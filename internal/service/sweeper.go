package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
)

// sweeperService removes media files no testimonial references. Rejections
// and failed saves can leave such files behind.
type sweeperService struct {
	repo     repository.TestimonialRepository
	media    *media.Store
	metrics  metrics.Provider
	log      zerolog.Logger
	interval time.Duration
	grace    time.Duration
	now      func() time.Time

	// moderation is shared with the testimonial service
	moderation *sync.Mutex

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

func newSweeperService(repo repository.TestimonialRepository, store *media.Store, cfg *config.StorageConfig, m metrics.Provider, moderation *sync.Mutex, log zerolog.Logger) *sweeperService {
	return &sweeperService{
		repo:       repo,
		media:      store,
		metrics:    m,
		log:        log.With().Str("service", "sweeper").Logger(),
		interval:   cfg.SweepInterval,
		grace:      cfg.SweepGrace,
		now:        time.Now,
		moderation: moderation,
	}
}

// StartProcessor runs a sweep now and then once per interval until
// StopProcessor is called or ctx ends. It returns immediately.
func (s *sweeperService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if s.interval <= 0 {
		s.log.Info().Msg("Media sweeper disabled")
		return
	}

	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop()

	s.log.Info().Dur("interval", s.interval).Dur("grace", s.grace).Msg("Media sweeper started")
}

func (s *sweeperService) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runSweep()
	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Media sweeper stopping")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// StopProcessor stops the background sweeper and waits for it to exit
func (s *sweeperService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info().Msg("Media sweeper stopped")
}

func (s *sweeperService) runSweep() {
	// Panic recovery keeps a bad sweep from taking the server down
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Media sweep panicked - recovered")
		}
	}()

	if _, err := s.SweepOnce(s.ctx); err != nil && s.ctx.Err() == nil {
		s.log.Error().Err(err).Msg("Media sweep failed")
	}
}

// SweepOnce deletes unreferenced files older than the grace period and
// returns how many were removed. Moderation is blocked for the whole sweep
// so no file changes directory between the snapshot and the delete.
func (s *sweeperService) SweepOnce(ctx context.Context) (int, error) {
	s.moderation.Lock()
	defer s.moderation.Unlock()

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load testimonials: %w", err)
	}

	type key struct {
		status   models.TestimonialStatus
		filename string
	}
	referenced := make(map[key]bool, len(records))
	for _, t := range records {
		if t.HasVideo {
			referenced[key{t.Status, t.VideoFilename}] = true
		}
	}

	files, err := s.media.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list media: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if referenced[key{f.Status, f.Filename}] || f.ModTime.After(cutoff) {
			continue
		}
		if err := s.media.Remove(f.Status, f.Filename); err != nil {
			s.log.Warn().Err(err).Str("file", f.Filename).Msg("Failed to delete orphaned media")
			continue
		}
		removed++
		s.log.Info().Str("file", f.Filename).Str("status", string(f.Status)).Msg("Deleted orphaned media")
	}

	if removed > 0 {
		s.metrics.AddSweptFiles(removed)
	}
	s.log.Debug().Int("scanned", len(files)).Int("removed", removed).Msg("Media sweep finished")

	return removed, nil
}
