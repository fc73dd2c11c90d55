package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadsite-api/internal/database"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database.Wrap(sqlDB, zerolog.Nop()), mock
}

var testimonialCols = []string{"id", "name", "testimonial_text", "video_filename", "video_url", "has_video", "status", "uploaded_at", "approved_at", "updated_at"}

func TestTestimonialPGRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO testimonials")).
		WithArgs("t-1", "Ana", "Great", "", "", false, "pending", now, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Testimonial{
		ID: "t-1", Name: "Ana", TestimonialText: "Great", Status: models.TestimonialStatusPending, UploadedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialPGRepo_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO testimonials")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Testimonial{ID: "t-1", Status: models.TestimonialStatusPending})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)
}

func TestTestimonialPGRepo_ListByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)
	now := time.Now()

	rows := sqlmock.NewRows(testimonialCols).
		AddRow("t-2", "Bo", "", "v.mp4", "/uploads/testimonials/approved/v.mp4", true, "approved", now, now, nil).
		AddRow("t-1", "Ana", "Great", "", "", false, "approved", now.Add(-time.Hour), now, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM testimonials WHERE status = $1 ORDER BY uploaded_at DESC")).
		WithArgs("approved").
		WillReturnRows(rows)

	list, err := repo.ListByStatus(context.Background(), models.TestimonialStatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].HasVideo)
	assert.NotNil(t, list[0].ApprovedAt)
	assert.Nil(t, list[0].UpdatedAt)
	assert.Equal(t, models.TestimonialStatusApproved, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialPGRepo_GetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM testimonials WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(testimonialCols))

	got, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTestimonialPGRepo_UpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE testimonials")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Testimonial{ID: "ghost", Status: models.TestimonialStatusPending})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTestimonialPGRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTestimonialPGRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM testimonials WHERE id = $1")).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "t-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealLocationPGRepo_UpdateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDealLocationPGRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE deal_locations SET name = $2 WHERE id = $1")).
		WithArgs("d-1", "Elm St").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lat", "lng", "name", "city", "state", "added_at"}).
			AddRow("d-1", 30.2, -97.7, "Elm St", "Austin", "TX", now))

	loc, err := repo.UpdateName(context.Background(), "d-1", "Elm St")
	require.NoError(t, err)
	assert.Equal(t, "Elm St", loc.Name)
	assert.Equal(t, "Austin", loc.City)
}

func TestDealLocationPGRepo_UpdateNameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDealLocationPGRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE deal_locations")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lat", "lng", "name", "city", "state", "added_at"}))

	_, err := repo.UpdateName(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDealLocationPGRepo_GetByIDAndCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDealLocationPGRepo(db)

	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM deal_locations WHERE id = $1")).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lat", "lng", "name", "city", "state", "added_at"}).
			AddRow("d-1", 33.75, -84.39, "", "Atlanta", "GA", added))
	mock.ExpectQuery(regexp.QuoteMeta("FROM deal_locations WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lat", "lng", "name", "city", "state", "added_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM deal_locations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	loc, err := repo.GetByID(context.Background(), "d-1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Atlanta", loc.City)
	assert.Equal(t, added, loc.AddedAt)

	missing, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
