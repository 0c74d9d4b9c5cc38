package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
)

// recordingPublisher captures published samples for assertions.
type recordingPublisher struct {
	mu      sync.Mutex
	samples []models.Location
}

func (p *recordingPublisher) PublishLocation(_ context.Context, sample models.Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = append(p.samples, sample)
}

func seedActiveTrip(t *testing.T, store repositories.Store) (*models.Booking, *models.User) {
	t.Helper()
	customer := seedUser(t, store, models.RoleCustomer)
	driver := seedUser(t, store, models.RoleDriver)
	booking := seedSearchingBooking(t, store, customer.ID)
	_, err := NewDispatchService(store, nil).AssignDriver(context.Background(), booking.ID, driver.ID)
	require.NoError(t, err)
	return booking, driver
}

func TestRecordLocation(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	publisher := &recordingPublisher{}
	svc := NewTrackingService(store, publisher)

	recorded := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return recorded }

	booking, driver := seedActiveTrip(t, store)

	sample, err := svc.RecordLocation(ctx, booking.ID, driver.ID, 28.6139, 77.2090)
	require.NoError(t, err)
	require.Equal(t, booking.ID, sample.BookingID)
	require.Equal(t, driver.ID, sample.DriverID)
	require.True(t, sample.Timestamp.Equal(recorded), "timestamp is server receipt time")

	require.Len(t, publisher.samples, 1)
	require.Equal(t, sample.ID, publisher.samples[0].ID)
}

func TestRecordLocationRejections(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewTrackingService(store, nil)

	booking, driver := seedActiveTrip(t, store)

	_, err := svc.RecordLocation(ctx, booking.ID, driver.ID, 95, 77)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordLocation(ctx, 9999, driver.ID, 28.6, 77.2)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RecordLocation(ctx, booking.ID, 9999, 28.6, 77.2)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Reports from a driver other than the assigned one are rejected.
	stranger := seedUser(t, store, models.RoleDriver)
	_, err = svc.RecordLocation(ctx, booking.ID, stranger.ID, 28.6, 77.2)
	require.ErrorIs(t, err, domain.ErrValidation)

	// No sample survives a rejected report.
	path, err := svc.TripPath(ctx, booking.ID)
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestRecordLocationRequiresActiveTrip(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewTrackingService(store, nil)
	bookings := NewBookingService(store, nil)

	booking, driver := seedActiveTrip(t, store)
	for _, status := range []models.BookingStatus{
		models.StatusDriverReachedPickup, models.StatusTripStarted,
		models.StatusInTransit, models.StatusCompleted,
	} {
		_, err := bookings.UpdateStatus(ctx, booking.ID, string(status))
		require.NoError(t, err)
	}

	_, err := svc.RecordLocation(ctx, booking.ID, driver.ID, 28.6, 77.2)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Bookings still searching have no driver to report for either.
	customer := seedUser(t, store, models.RoleCustomer)
	waiting := seedSearchingBooking(t, store, customer.ID)
	_, err = svc.RecordLocation(ctx, waiting.ID, driver.ID, 28.6, 77.2)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTripPathOrderedByTime(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewTrackingService(store, nil)

	clock := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(5 * time.Second)
		return clock
	}

	booking, driver := seedActiveTrip(t, store)

	coords := [][2]float64{{28.60, 77.20}, {28.61, 77.21}, {28.62, 77.22}}
	for _, c := range coords {
		_, err := svc.RecordLocation(ctx, booking.ID, driver.ID, c[0], c[1])
		require.NoError(t, err)
	}

	path, err := svc.TripPath(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, path, len(coords))
	for i := 1; i < len(path); i++ {
		require.True(t, path[i-1].Timestamp.Before(path[i].Timestamp), "samples are ordered oldest first")
	}
	require.Equal(t, 28.60, path[0].Latitude)
	require.Equal(t, 28.62, path[2].Latitude)

	_, err = svc.TripPath(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatestForDriver(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewTrackingService(store, nil)

	clock := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	booking, driver := seedActiveTrip(t, store)

	_, err := svc.LatestForDriver(ctx, driver.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RecordLocation(ctx, booking.ID, driver.ID, 28.60, 77.20)
	require.NoError(t, err)
	_, err = svc.RecordLocation(ctx, booking.ID, driver.ID, 28.65, 77.25)
	require.NoError(t, err)

	latest, err := svc.LatestForDriver(ctx, driver.ID)
	require.NoError(t, err)
	require.Equal(t, 28.65, latest.Latitude)

	_, err = svc.LatestForDriver(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
