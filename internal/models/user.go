package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleDriver   Role = "DRIVER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	gorm.Model   // This embeds ID, CreatedAt, UpdatedAt, and DeletedAt
	Name         string `json:"name" gorm:"column:name"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	Password     string `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Phone        string `json:"phone" gorm:"column:phone"`
	Address      string `json:"address" gorm:"column:address"`
	Role         Role   `json:"role" gorm:"column:role;not null"`

	// Driver specific fields
	VehicleType   string `json:"vehicleType,omitempty" gorm:"column:vehicle_type"`
	VehicleNumber string `json:"vehicleNumber,omitempty" gorm:"column:vehicle_number"`
	LicenseNumber string `json:"licenseNumber,omitempty" gorm:"column:license_number"`
	IsOnline      bool   `json:"isOnline" gorm:"column:is_online;not null;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// IsDriver reports whether the user can be assigned to bookings.
func (u *User) IsDriver() bool {
	return u.Role == RoleDriver
}
