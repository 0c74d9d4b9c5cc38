package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
)

// DispatchService pairs waiting bookings with drivers. It exposes the two
// pools an external decision-maker matches from and performs the actual
// assignment; automatic matching can be layered on top of the same pools.
type DispatchService struct {
	store    repositories.Store
	notifier Notifier
	now      func() time.Time
}

func NewDispatchService(store repositories.Store, notifier Notifier) *DispatchService {
	return &DispatchService{store: store, notifier: notifier, now: time.Now}
}

// PendingBookings lists bookings waiting for a driver, oldest first, so the
// earliest customer is served first.
func (s *DispatchService) PendingBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.Bookings().FindByStatusOldestFirst(ctx, models.StatusSearchingDriver)
}

// AvailableDrivers lists drivers that are online and can take a booking.
func (s *DispatchService) AvailableDrivers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().FindOnlineDrivers(ctx)
}

// SetAvailability flips a driver's online flag. Only the driver record's
// explicit availability field is consulted by dispatch queries.
func (s *DispatchService) SetAvailability(ctx context.Context, driverID uint, online bool) (*models.User, error) {
	var driver *models.User
	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		var err error
		driver, err = tx.Users().FindByIDForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("driver %d: %w", driverID, err)
		}
		if !driver.IsDriver() {
			return fmt.Errorf("user %d: %w", driverID, domain.ErrInvalidRole)
		}
		driver.IsOnline = online
		return tx.Users().Save(ctx, driver)
	})
	if err != nil {
		return nil, err
	}
	return driver, nil
}

// AssignDriver assigns a driver to a waiting booking. The booking must be
// SEARCHING_DRIVER and the driver must not hold another active booking; the
// check and the write happen in one transaction, serialized on the driver
// row, so two racing assignments for the same driver cannot both succeed.
func (s *DispatchService) AssignDriver(ctx context.Context, bookingID, driverID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		driver, err := tx.Users().FindByIDForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("driver %d: %w", driverID, err)
		}
		if !driver.IsDriver() {
			return fmt.Errorf("user %d: %w", driverID, domain.ErrInvalidRole)
		}

		booking, err = tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("booking %d: %w", bookingID, err)
		}
		if booking.Status != models.StatusSearchingDriver {
			return fmt.Errorf("%w: booking is %s, not %s",
				domain.ErrInvalidTransition, booking.Status, models.StatusSearchingDriver)
		}

		active, err := tx.Bookings().FindActiveByDriver(ctx, driverID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return fmt.Errorf("driver %d: %w", driverID, domain.ErrDriverBusy)
		}

		now := s.now()
		booking.DriverID = &driverID
		booking.Status = models.StatusDriverAssigned
		booking.DriverAssignedAt = &now

		return tx.Bookings().Save(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingUpdated(*booking)
	}
	return booking, nil
}
