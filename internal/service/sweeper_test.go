package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
	"github.com/leadsite-api/internal/service"
)

// writeOrphan creates an unreferenced media file with the given age
func writeOrphan(t *testing.T, env *testEnv, status models.TestimonialStatus, name string, age time.Duration) {
	t.Helper()
	path, err := env.media.Path(status, name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestSweeper_RemovesOldOrphansOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	kept := submitWithVideo(t, env, "Jane")
	path, err := env.media.Path(models.TestimonialStatusPending, kept.VideoFilename)
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	writeOrphan(t, env, models.TestimonialStatusPending, "old-pending.mp4", 48*time.Hour)
	writeOrphan(t, env, models.TestimonialStatusApproved, "old-approved.mp4", 48*time.Hour)
	writeOrphan(t, env, models.TestimonialStatusPending, "fresh.mp4", time.Minute)

	removed, err := env.services.Sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	files, err := env.media.List()
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	assert.ElementsMatch(t, []string{kept.VideoFilename, "fresh.mp4"}, names)
}

func TestSweeper_StatusMustMatch(t *testing.T) {
	env := newTestEnv(t)

	tm := submitWithVideo(t, env, "Jane")
	// same file name in the other status directory is not referenced
	writeOrphan(t, env, models.TestimonialStatusApproved, tm.VideoFilename, 48*time.Hour)

	removed, err := env.services.Sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, fileExists(t, env, models.TestimonialStatusPending, tm.VideoFilename))
}

// listAllHookRepo runs afterListAll once, right after the sweeper takes its snapshot
type listAllHookRepo struct {
	repository.TestimonialRepository
	afterListAll func()
}

func (r *listAllHookRepo) ListAll(ctx context.Context) ([]*models.Testimonial, error) {
	items, err := r.TestimonialRepository.ListAll(ctx)
	if hook := r.afterListAll; hook != nil {
		r.afterListAll = nil
		hook()
	}
	return items, err
}

func TestSweeper_KeepsVideoApprovedDuringSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hooked := &listAllHookRepo{TestimonialRepository: env.repos.Testimonial}
	env.services = service.NewServices(&service.Deps{
		Repos:  &repository.Repositories{Testimonial: hooked, DealLocation: env.repos.DealLocation},
		Media:  env.media,
		Mailer: env.mailer,
	}, env.cfg, zerolog.Nop())

	tm := submitWithVideo(t, env, "Jane")
	path, err := env.media.Path(models.TestimonialStatusPending, tm.VideoFilename)
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	approved := make(chan error, 1)
	hooked.afterListAll = func() {
		go func() {
			_, err := env.services.Testimonial.Approve(ctx, tm.ID)
			approved <- err
		}()
		// let the approval finish first unless the sweep blocks it
		select {
		case err := <-approved:
			approved <- err
		case <-time.After(200 * time.Millisecond):
		}
	}

	removed, err := env.services.Sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	require.NoError(t, <-approved)

	list, err := env.services.Testimonial.List(ctx, models.TestimonialStatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].HasVideo)
	assert.True(t, fileExists(t, env, models.TestimonialStatusApproved, tm.VideoFilename))
}

func TestSweeper_StartStop(t *testing.T) {
	env := newTestEnv(t)
	writeOrphan(t, env, models.TestimonialStatusPending, "old.mp4", 48*time.Hour)

	sweeper := env.services.Sweeper
	sweeper.StartProcessor(context.Background())
	// starting twice is a no-op
	sweeper.StartProcessor(context.Background())

	require.Eventually(t, func() bool {
		return !fileExists(t, env, models.TestimonialStatusPending, "old.mp4")
	}, 2*time.Second, 10*time.Millisecond)

	sweeper.StopProcessor()
	// stopping twice is a no-op
	sweeper.StopProcessor()
}

func TestSweeper_DisabledWithZeroInterval(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Storage.SweepInterval = 0
	svcs := service.NewServices(&service.Deps{Repos: env.repos, Media: env.media, Mailer: env.mailer}, env.cfg, zerolog.Nop())

	writeOrphan(t, env, models.TestimonialStatusPending, "old.mp4", 48*time.Hour)

	svcs.Sweeper.StartProcessor(context.Background())
	svcs.Sweeper.StopProcessor()

	assert.True(t, fileExists(t, env, models.TestimonialStatusPending, "old.mp4"))
}
