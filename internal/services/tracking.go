package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/pkg/utils"
)

// LocationPublisher pushes a persisted location sample to interested
// observers. Publishing happens after the write and is fire-and-forget: a
// failed publish never rolls back the sample.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, sample models.Location)
}

// LocationFanout publishes a sample to every configured sink.
type LocationFanout []LocationPublisher

func (f LocationFanout) PublishLocation(ctx context.Context, sample models.Location) {
	for _, sink := range f {
		sink.PublishLocation(ctx, sample)
	}
}

// TrackingService records driver position updates during active trips and
// serves the recorded paths.
type TrackingService struct {
	store     repositories.Store
	publisher LocationPublisher
	now       func() time.Time
}

func NewTrackingService(store repositories.Store, publisher LocationPublisher) *TrackingService {
	return &TrackingService{store: store, publisher: publisher, now: time.Now}
}

// RecordLocation persists one position sample for an active trip and fans
// it out to subscribers. The booking must be in an active-trip status and
// the reporting driver must be the booking's assigned driver. The sample's
// timestamp is the server receipt time.
func (s *TrackingService) RecordLocation(ctx context.Context, bookingID, driverID uint, lat, lng float64) (*models.Location, error) {
	if !utils.IsValidCoordinate(lat, lng) {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}

	booking, err := s.store.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	if _, err := s.store.Users().FindByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("driver %d: %w", driverID, err)
	}

	if !booking.Status.IsActive() {
		return nil, fmt.Errorf("%w: booking is %s, not on an active trip",
			domain.ErrInvalidTransition, booking.Status)
	}
	if booking.DriverID == nil || *booking.DriverID != driverID {
		return nil, fmt.Errorf("%w: driver %d is not assigned to booking %d",
			domain.ErrValidation, driverID, bookingID)
	}

	sample := &models.Location{
		BookingID: bookingID,
		DriverID:  driverID,
		Latitude:  lat,
		Longitude: lng,
		Timestamp: s.now(),
	}
	if err := s.store.Locations().Append(ctx, sample); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishLocation(ctx, *sample)
	}
	return sample, nil
}

// TripPath returns every sample recorded for a booking, oldest first.
func (s *TrackingService) TripPath(ctx context.Context, bookingID uint) ([]models.Location, error) {
	if _, err := s.store.Bookings().FindByID(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	return s.store.Locations().FindByBooking(ctx, bookingID)
}

// LatestForDriver returns the driver's most recent sample.
func (s *TrackingService) LatestForDriver(ctx context.Context, driverID uint) (*models.Location, error) {
	if _, err := s.store.Users().FindByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("driver %d: %w", driverID, err)
	}
	return s.store.Locations().FindLatestByDriver(ctx, driverID)
}
