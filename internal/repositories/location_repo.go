package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/tucktruck/tucktruck-backend/internal/models"
)

type gormLocationRepo struct {
	db *gorm.DB
}

func (r *gormLocationRepo) Append(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *gormLocationRepo) FindByBooking(ctx context.Context, bookingID uint) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("timestamp ASC").
		Find(&locations).Error
	return locations, err
}

func (r *gormLocationRepo) FindLatestByDriver(ctx context.Context, driverID uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("timestamp DESC").
		First(&location).Error; err != nil {
		return nil, translateError(err)
	}
	return &location, nil
}
