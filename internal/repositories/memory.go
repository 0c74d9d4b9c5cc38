package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
)

// MemoryStore is an in-memory Store used by unit tests and local
// development. Transactions are serialized by a single mutex, which gives
// the same atomic read-modify-write guarantee the database store provides
// with row locks. Mutations inside a failed transaction are not rolled
// back; callers validate before they write.
type MemoryStore struct {
	data *memData
	inTx bool
}

type memData struct {
	mu          sync.Mutex
	users       map[uint]models.User
	bookings    map[uint]models.Booking
	locations   []models.Location
	userSeq     uint
	bookingSeq  uint
	locationSeq uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memData{
			users:    make(map[uint]models.User),
			bookings: make(map[uint]models.Booking),
		},
	}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.data.mu.Lock()
	return s.data.mu.Unlock
}

func (s *MemoryStore) Users() UserStore         { return &memUserRepo{s} }
func (s *MemoryStore) Bookings() BookingStore   { return &memBookingRepo{s} }
func (s *MemoryStore) Locations() LocationStore { return &memLocationRepo{s} }

func (s *MemoryStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return fn(&MemoryStore{data: s.data, inTx: true})
}

type memUserRepo struct {
	store *MemoryStore
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	unlock := r.store.lock()
	defer unlock()
	d := r.store.data
	d.userSeq++
	user.ID = d.userSeq
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	d.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Save(_ context.Context, user *models.User) error {
	unlock := r.store.lock()
	defer unlock()
	d := r.store.data
	if _, ok := d.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	d.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	unlock := r.store.lock()
	defer unlock()
	user, ok := r.store.data.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *memUserRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	// The transaction mutex already serializes access.
	return r.FindByID(ctx, id)
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	unlock := r.store.lock()
	defer unlock()
	for _, user := range r.store.data.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	unlock := r.store.lock()
	defer unlock()
	var users []models.User
	for _, user := range r.store.data.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sortUsersByID(users)
	return users, nil
}

func (r *memUserRepo) FindOnlineDrivers(_ context.Context) ([]models.User, error) {
	unlock := r.store.lock()
	defer unlock()
	var users []models.User
	for _, user := range r.store.data.users {
		if user.Role == models.RoleDriver && user.IsOnline {
			users = append(users, user)
		}
	}
	sortUsersByID(users)
	return users, nil
}

func (r *memUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	unlock := r.store.lock()
	defer unlock()
	users := make([]models.User, 0, len(r.store.data.users))
	for _, user := range r.store.data.users {
		users = append(users, user)
	}
	sortUsersByID(users)
	return users, nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	unlock := r.store.lock()
	defer unlock()
	delete(r.store.data.users, id)
	return nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	unlock := r.store.lock()
	defer unlock()
	return int64(len(r.store.data.users)), nil
}

func (r *memUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	users, err := r.FindByRole(ctx, role)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

type memBookingRepo struct {
	store *MemoryStore
}

func (r *memBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	unlock := r.store.lock()
	defer unlock()
	d := r.store.data
	d.bookingSeq++
	booking.ID = d.bookingSeq
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	d.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) Save(_ context.Context, booking *models.Booking) error {
	unlock := r.store.lock()
	defer unlock()
	d := r.store.data
	if _, ok := d.bookings[booking.ID]; !ok {
		return domain.ErrNotFound
	}
	d.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uint) (*models.Booking, error) {
	unlock := r.store.lock()
	defer unlock()
	booking, ok := r.store.data.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &booking, nil
}

func (r *memBookingRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookingRepo) FindByCustomer(_ context.Context, customerID uint) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return b.CustomerID == customerID }, newestFirst), nil
}

func (r *memBookingRepo) FindByDriver(_ context.Context, driverID uint) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool {
		return b.DriverID != nil && *b.DriverID == driverID
	}, newestFirst), nil
}

func (r *memBookingRepo) FindActiveByDriver(_ context.Context, driverID uint) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool {
		return b.DriverID != nil && *b.DriverID == driverID && b.Status.IsActive()
	}, oldestFirst), nil
}

func (r *memBookingRepo) FindByStatusOldestFirst(_ context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return b.Status == status }, oldestFirst), nil
}

func (r *memBookingRepo) FindAllNewestFirst(_ context.Context) ([]models.Booking, error) {
	return r.filter(func(models.Booking) bool { return true }, newestFirst), nil
}

func (r *memBookingRepo) Count(_ context.Context) (int64, error) {
	unlock := r.store.lock()
	defer unlock()
	return int64(len(r.store.data.bookings)), nil
}

func (r *memBookingRepo) CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	bookings, err := r.FindByStatusOldestFirst(ctx, status)
	if err != nil {
		return 0, err
	}
	return int64(len(bookings)), nil
}

type bookingOrder int

const (
	oldestFirst bookingOrder = iota
	newestFirst
)

func (r *memBookingRepo) filter(keep func(models.Booking) bool, order bookingOrder) []models.Booking {
	unlock := r.store.lock()
	defer unlock()
	var bookings []models.Booking
	for _, booking := range r.store.data.bookings {
		if keep(booking) {
			bookings = append(bookings, booking)
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			if order == newestFirst {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if order == newestFirst {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return bookings
}

type memLocationRepo struct {
	store *MemoryStore
}

func (r *memLocationRepo) Append(_ context.Context, location *models.Location) error {
	unlock := r.store.lock()
	defer unlock()
	d := r.store.data
	d.locationSeq++
	location.ID = d.locationSeq
	if location.CreatedAt.IsZero() {
		location.CreatedAt = time.Now()
	}
	d.locations = append(d.locations, *location)
	return nil
}

func (r *memLocationRepo) FindByBooking(_ context.Context, bookingID uint) ([]models.Location, error) {
	unlock := r.store.lock()
	defer unlock()
	var locations []models.Location
	for _, l := range r.store.data.locations {
		if l.BookingID == bookingID {
			locations = append(locations, l)
		}
	}
	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].Timestamp.Before(locations[j].Timestamp)
	})
	return locations, nil
}

func (r *memLocationRepo) FindLatestByDriver(_ context.Context, driverID uint) (*models.Location, error) {
	unlock := r.store.lock()
	defer unlock()
	var latest *models.Location
	for i := range r.store.data.locations {
		l := r.store.data.locations[i]
		if l.DriverID != driverID {
			continue
		}
		if latest == nil || !l.Timestamp.Before(latest.Timestamp) {
			latest = &l
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func sortUsersByID(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
