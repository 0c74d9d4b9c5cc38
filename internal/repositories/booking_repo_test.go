package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

func TestFindByStatusOldestFirst(t *testing.T) {
	store, mock := newMockStore(t)

	earlier := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "bookings" WHERE status = $1 AND "bookings"."deleted_at" IS NULL ORDER BY created_at ASC`)).
		WithArgs(string(models.StatusSearchingDriver)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status", "created_at"}).
			AddRow(1, 10, string(models.StatusSearchingDriver), earlier).
			AddRow(2, 11, string(models.StatusSearchingDriver), later))

	bookings, err := store.Bookings().FindByStatusOldestFirst(context.Background(), models.StatusSearchingDriver)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, uint(1), bookings[0].ID)
	require.Equal(t, uint(2), bookings[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "bookings" WHERE "bookings"."id" = $1 AND "bookings"."deleted_at" IS NULL ORDER BY "bookings"."id" LIMIT $2`)).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Bookings().FindByID(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDForUpdateLocksRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "bookings" WHERE "bookings"."id" = $1 AND "bookings"."deleted_at" IS NULL ORDER BY "bookings"."id" LIMIT $2 FOR UPDATE`)).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status"}).
			AddRow(7, 10, string(models.StatusSearchingDriver)))

	booking, err := store.Bookings().FindByIDForUpdate(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), booking.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT count(*) FROM "bookings" WHERE status = $1 AND "bookings"."deleted_at" IS NULL`)).
		WithArgs(string(models.StatusCompleted)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.Bookings().CountByStatus(context.Background(), models.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
