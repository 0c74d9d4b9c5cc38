package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tucktruck/tucktruck-backend/internal/models"
)

type gormBookingRepo struct {
	db *gorm.DB
}

func (r *gormBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *gormBookingRepo) Save(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *gormBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &booking, nil
}

func (r *gormBookingRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &booking, nil
}

func (r *gormBookingRepo) FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *gormBookingRepo) FindByDriver(ctx context.Context, driverID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *gormBookingRepo) FindActiveByDriver(ctx context.Context, driverID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID, models.ActiveStatuses).
		Find(&bookings).Error
	return bookings, err
}

func (r *gormBookingRepo) FindByStatusOldestFirst(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *gormBookingRepo) FindAllNewestFirst(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *gormBookingRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}

func (r *gormBookingRepo) CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
