// File: internal/buyer/repository.go
package buyer

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazaar_onboarding_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for buyer profile data operations.
type Repository interface {
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*Profile, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	CountIncompleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM buyer profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetOrCreateByUserID keeps the one-profile-per-user invariant via the
// unique index on user_id: a losing concurrent insert refetches.
func (r *gormRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*Profile, bool, error) {
	existing, err := r.findByUserID(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if apiErr, ok := common.IsAPIError(err); !ok || apiErr.StatusCode != 404 {
		return nil, false, err
	}

	profile := &Profile{UserID: userID, PaymentStatus: true}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			winner, ferr := r.findByUserID(ctx, userID)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	created, err := r.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (r *gormRepository) findByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Buyer profile not found for this user.")
		}
		return nil, err
	}
	return &profile, nil
}

// FindByID retrieves a buyer profile with its user preloaded.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Buyer profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

// Update persists changes to an existing buyer profile.
func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// CountIncompleteOlderThan counts profiles still awaiting terms acceptance
// that were created before cutoff. Used by the stale-onboarding sweep.
func (r *gormRepository) CountIncompleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Profile{}).
		Where("terms_accepted = ? AND created_at < ?", false, cutoff).
		Count(&count).Error
	return count, err
}
