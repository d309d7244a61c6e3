// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"bazaar_onboarding_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	// GetOrCreate returns the user stored under username, creating it with
	// userType if absent. The boolean reports whether a row was created.
	GetOrCreate(ctx context.Context, username, userType string) (*User, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetOrCreate relies on the unique index on username: on a concurrent first
// request the losing insert refetches the winner's row instead of failing.
func (r *gormRepository) GetOrCreate(ctx context.Context, username, userType string) (*User, bool, error) {
	username = strings.TrimSpace(username)

	existing, err := r.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if apiErr, ok := common.IsAPIError(err); !ok || apiErr.StatusCode != 404 {
		return nil, false, err
	}

	newUser := &User{Username: username, UserType: userType}
	if err := r.db.WithContext(ctx).Create(newUser).Error; err != nil {
		if isUniqueViolation(err) {
			winner, ferr := r.FindByUsername(ctx, username)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return newUser, true, nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByUsername retrieves a user by their username.
func (r *gormRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this username.")
		}
		return nil, err
	}
	return &userModel, nil
}
