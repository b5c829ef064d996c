package repositories

import (
	"context"
	"errors"

	"earnsure/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	IncrementTokenVersion(id uint) error

	// Device binding (one-account-per-device fraud control)
	DeviceInUse(deviceID string) (bool, error)

	// Admin listings
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	TopBalances(ctx context.Context, limit int) ([]*models.User, error)
}
