package repositories

import (
	"context"

	"github.com/tucktruck/tucktruck-backend/internal/models"
)

// UserStore is the externally-owned user directory as seen by the booking
// core: identity lookup plus the driver availability flag.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// FindByIDForUpdate locks the user row for the remainder of the
	// enclosing transaction. It is the serialization point for the
	// one-active-trip-per-driver check.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	FindOnlineDrivers(ctx context.Context) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// BookingStore persists Booking records.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	Save(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	// FindByIDForUpdate locks the booking row for the remainder of the
	// enclosing transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)
	FindByDriver(ctx context.Context, driverID uint) ([]models.Booking, error)
	// FindActiveByDriver returns the driver's bookings whose status is in
	// the active set.
	FindActiveByDriver(ctx context.Context, driverID uint) ([]models.Booking, error)
	// FindByStatusOldestFirst returns bookings in a status ordered by
	// creation time ascending.
	FindByStatusOldestFirst(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	FindAllNewestFirst(ctx context.Context) ([]models.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
}

// LocationStore is the append-only log of driver position samples.
type LocationStore interface {
	Append(ctx context.Context, location *models.Location) error
	// FindByBooking returns the full trip path ordered by timestamp.
	FindByBooking(ctx context.Context, bookingID uint) ([]models.Location, error)
	FindLatestByDriver(ctx context.Context, driverID uint) (*models.Location, error)
}

// Store bundles the repositories behind one transactional boundary.
type Store interface {
	Users() UserStore
	Bookings() BookingStore
	Locations() LocationStore
	// InTransaction runs fn against a store view whose mutations commit or
	// roll back as one atomic unit.
	InTransaction(ctx context.Context, fn func(Store) error) error
}
