package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
)

// GormStore backs the repositories with a relational database through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserStore         { return &gormUserRepo{db: s.db} }
func (s *GormStore) Bookings() BookingStore   { return &gormBookingRepo{db: s.db} }
func (s *GormStore) Locations() LocationStore { return &gormLocationRepo{db: s.db} }

func (s *GormStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
