package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/pkg/utils"
)

// Notifier receives booking lifecycle events after they are committed.
// Delivery is best-effort; a lost notification never fails the operation.
type Notifier interface {
	BookingCreated(booking models.Booking)
	BookingUpdated(booking models.Booking)
}

// BookingService owns the booking lifecycle: it validates and applies every
// status transition and is the only writer of booking records.
type BookingService struct {
	store    repositories.Store
	notifier Notifier
	now      func() time.Time
}

func NewBookingService(store repositories.Store, notifier Notifier) *BookingService {
	return &BookingService{store: store, notifier: notifier, now: time.Now}
}

// CreateBookingInput carries the customer's booking request.
type CreateBookingInput struct {
	CustomerID      uint
	PickupLocation  string
	PickupLatitude  *float64
	PickupLongitude *float64
	DropLocation    string
	DropLatitude    *float64
	DropLongitude   *float64
	VehicleType     string
	Distance        *float64 // km, optional
	CustomerNotes   string
	CustomerPhone   string
	PaymentMethod   string
}

// CreateBooking creates a booking for a customer and immediately moves it
// to SEARCHING_DRIVER; no caller ever observes CREATED. The estimated price
// is computed when a distance is known, either supplied by the caller or
// derived from the pickup/drop coordinates.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.PickupLocation == "" || input.DropLocation == "" || input.VehicleType == "" {
		return nil, fmt.Errorf("%w: pickup, drop and vehicle type are required", domain.ErrValidation)
	}
	if input.Distance != nil && *input.Distance < 0 {
		return nil, fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}

	booking := &models.Booking{
		CustomerID:      input.CustomerID,
		PickupLocation:  input.PickupLocation,
		PickupLatitude:  input.PickupLatitude,
		PickupLongitude: input.PickupLongitude,
		DropLocation:    input.DropLocation,
		DropLatitude:    input.DropLatitude,
		DropLongitude:   input.DropLongitude,
		VehicleType:     input.VehicleType,
		Distance:        input.Distance,
		Status:          models.StatusSearchingDriver,
		CustomerNotes:   input.CustomerNotes,
		CustomerPhone:   input.CustomerPhone,
		PaymentMethod:   input.PaymentMethod,
	}

	if booking.Distance == nil &&
		input.PickupLatitude != nil && input.PickupLongitude != nil &&
		input.DropLatitude != nil && input.DropLongitude != nil {
		d := utils.HaversineDistance(*input.PickupLatitude, *input.PickupLongitude,
			*input.DropLatitude, *input.DropLongitude)
		booking.Distance = &d
	}

	if booking.Distance != nil {
		price := utils.CalculatePrice(*booking.Distance, booking.VehicleType)
		booking.EstimatedPrice = &price
	}

	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().FindByID(ctx, input.CustomerID); err != nil {
			return fmt.Errorf("customer %d: %w", input.CustomerID, err)
		}
		return tx.Bookings().Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(*booking)
	}
	return booking, nil
}

// UpdateStatus applies a driver-initiated lifecycle transition. Transitions
// must follow the declared forward order; terminal states cannot be
// re-entered. CANCELLED is only reachable through CancelBooking and
// DRIVER_ASSIGNED only through AssignDriver.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uint, rawStatus string) (*models.Booking, error) {
	newStatus, err := models.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if newStatus == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cancellation must go through the cancel operation", domain.ErrInvalidTransition)
	}

	var booking *models.Booking
	err = s.store.InTransaction(ctx, func(tx repositories.Store) error {
		booking, err = tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("booking %d: %w", bookingID, err)
		}

		if !booking.Status.CanTransition(newStatus) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, newStatus)
		}

		booking.Status = newStatus
		s.applyStatusTimestamps(booking, newStatus)

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

// applyStatusTimestamps derives timestamp side effects of a transition.
// Every status has an arm so a new status forces a decision here.
func (s *BookingService) applyStatusTimestamps(booking *models.Booking, newStatus models.BookingStatus) {
	switch newStatus {
	case models.StatusTripStarted:
		if booking.TripStartedAt == nil {
			now := s.now()
			booking.TripStartedAt = &now
		}
	case models.StatusCompleted:
		if booking.CompletedAt == nil {
			now := s.now()
			booking.CompletedAt = &now
		}
	case models.StatusPaid:
		booking.IsPaid = true
	case models.StatusCreated,
		models.StatusSearchingDriver,
		models.StatusDriverAssigned,
		models.StatusDriverReachedPickup,
		models.StatusInTransit,
		models.StatusCancelled:
		// no timestamp side effects
	}
}

// CancelBooking cancels a booking unless the trip is physically underway.
// Re-cancelling an already cancelled booking is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		var err error
		booking, err = tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("booking %d: %w", bookingID, err)
		}

		if booking.Status.InProgress() {
			return fmt.Errorf("%w: cannot cancel a trip in progress", domain.ErrInvalidTransition)
		}
		if booking.Status == models.StatusCancelled {
			return nil
		}

		booking.Status = models.StatusCancelled
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

// ActiveBooking returns the driver's booking currently occupying them, or
// nil when the driver is free. More than one active booking means the
// one-active-trip invariant was violated elsewhere; it is logged and the
// first booking returned.
func (s *BookingService) ActiveBooking(ctx context.Context, driverID uint) (*models.Booking, error) {
	if _, err := s.store.Users().FindByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("driver %d: %w", driverID, err)
	}

	active, err := s.store.Bookings().FindActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	if len(active) > 1 {
		log.Printf("Data integrity alarm: driver %d has %d active bookings", driverID, len(active))
	}
	return &active[0], nil
}

// CustomerBookings lists a customer's bookings, newest first.
func (s *BookingService) CustomerBookings(ctx context.Context, customerID uint) ([]models.Booking, error) {
	if _, err := s.store.Users().FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, err)
	}
	return s.store.Bookings().FindByCustomer(ctx, customerID)
}

// DriverBookings lists a driver's bookings, newest first.
func (s *BookingService) DriverBookings(ctx context.Context, driverID uint) ([]models.Booking, error) {
	if _, err := s.store.Users().FindByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("driver %d: %w", driverID, err)
	}
	return s.store.Bookings().FindByDriver(ctx, driverID)
}

// AllBookings lists every booking, newest first.
func (s *BookingService) AllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.Bookings().FindAllNewestFirst(ctx)
}

// BookingByID fetches a single booking.
func (s *BookingService) BookingByID(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.store.Bookings().FindByID(ctx, bookingID)
}
