package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
)

func TestAssignDriver(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	notifier := &recordingNotifier{}
	svc := NewDispatchService(store, notifier)

	customer := seedUser(t, store, models.RoleCustomer)
	driver := seedUser(t, store, models.RoleDriver)
	booking := seedSearchingBooking(t, store, customer.ID)

	assigned, err := svc.AssignDriver(ctx, booking.ID, driver.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusDriverAssigned, assigned.Status)
	require.NotNil(t, assigned.DriverID)
	require.Equal(t, driver.ID, *assigned.DriverID)
	require.NotNil(t, assigned.DriverAssignedAt)
	require.Len(t, notifier.updated, 1)

	// The booking left SEARCHING_DRIVER, so it cannot be assigned again.
	otherDriver := seedUser(t, store, models.RoleDriver)
	_, err = svc.AssignDriver(ctx, booking.ID, otherDriver.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAssignDriverRejectsNonDrivers(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)

	customer := seedUser(t, store, models.RoleCustomer)
	booking := seedSearchingBooking(t, store, customer.ID)

	_, err := svc.AssignDriver(ctx, booking.ID, customer.ID)
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	stored, err := store.Bookings().FindByID(ctx, booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSearchingDriver, stored.Status)
	require.Nil(t, stored.DriverID)
}

func TestAssignDriverRejectsBusyDriver(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)

	customer := seedUser(t, store, models.RoleCustomer)
	driver := seedUser(t, store, models.RoleDriver)
	first := seedSearchingBooking(t, store, customer.ID)
	second := seedSearchingBooking(t, store, customer.ID)

	_, err := svc.AssignDriver(ctx, first.ID, driver.ID)
	require.NoError(t, err)

	_, err = svc.AssignDriver(ctx, second.ID, driver.ID)
	require.ErrorIs(t, err, domain.ErrDriverBusy)

	stored, err := store.Bookings().FindByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSearchingDriver, stored.Status)
}

func TestAssignDriverConcurrentAssignments(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)

	customer := seedUser(t, store, models.RoleCustomer)
	driver := seedUser(t, store, models.RoleDriver)

	const n = 8
	bookings := make([]*models.Booking, n)
	for i := range bookings {
		bookings[i] = seedSearchingBooking(t, store, customer.ID)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range bookings {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AssignDriver(ctx, bookings[i].ID, driver.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrDriverBusy)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one assignment wins the race")

	active, err := store.Bookings().FindActiveByDriver(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestAssignDriverAfterCompletion(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)
	bookings := NewBookingService(store, nil)

	customer := seedUser(t, store, models.RoleCustomer)
	driver := seedUser(t, store, models.RoleDriver)
	first := seedSearchingBooking(t, store, customer.ID)
	second := seedSearchingBooking(t, store, customer.ID)

	_, err := svc.AssignDriver(ctx, first.ID, driver.ID)
	require.NoError(t, err)
	for _, status := range []models.BookingStatus{
		models.StatusDriverReachedPickup, models.StatusTripStarted,
		models.StatusInTransit, models.StatusCompleted,
	} {
		_, err = bookings.UpdateStatus(ctx, first.ID, string(status))
		require.NoError(t, err)
	}

	// COMPLETED no longer occupies the driver.
	_, err = svc.AssignDriver(ctx, second.ID, driver.ID)
	require.NoError(t, err)
}

func TestPendingBookingsOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)
	bookings := NewBookingService(store, nil)

	customer := seedUser(t, store, models.RoleCustomer)
	first := seedSearchingBooking(t, store, customer.ID)
	second := seedSearchingBooking(t, store, customer.ID)
	third := seedSearchingBooking(t, store, customer.ID)

	_, err := bookings.CancelBooking(ctx, second.ID)
	require.NoError(t, err)

	pending, err := svc.PendingBookings(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, first.ID, pending[0].ID)
	require.Equal(t, third.ID, pending[1].ID)
}

func TestSetAvailability(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewDispatchService(store, nil)

	driver := seedUser(t, store, models.RoleDriver)
	customer := seedUser(t, store, models.RoleCustomer)

	drivers, err := svc.AvailableDrivers(ctx)
	require.NoError(t, err)
	require.Empty(t, drivers)

	updated, err := svc.SetAvailability(ctx, driver.ID, true)
	require.NoError(t, err)
	require.True(t, updated.IsOnline)

	drivers, err = svc.AvailableDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	require.Equal(t, driver.ID, drivers[0].ID)

	_, err = svc.SetAvailability(ctx, driver.ID, false)
	require.NoError(t, err)
	drivers, err = svc.AvailableDrivers(ctx)
	require.NoError(t, err)
	require.Empty(t, drivers)

	_, err = svc.SetAvailability(ctx, customer.ID, true)
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.SetAvailability(ctx, 9999, true)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
