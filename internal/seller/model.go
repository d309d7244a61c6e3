// File: internal/seller/model.go
package seller

import (
	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/user"

	"github.com/google/uuid"
)

// Days a seller can pick for their weekly slot. Matching is exact and
// case-sensitive.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// IsValidDay reports whether day is one of the seven canonical day names.
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Profile carries a seller's onboarding flags. Status is derived from
// (TermsAccepted, SelectedDay) on every read; there is no stored state column.
type Profile struct {
	common.BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_seller_profiles_user_id,unique"`
	User          user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	TermsAccepted bool      `gorm:"not null;default:false"`
	// PaymentStatus is reserved; no flow reads or enforces it.
	PaymentStatus bool    `gorm:"not null;default:true"`
	Address       string  `gorm:"type:varchar(255)"`
	SelectedDay   *string `gorm:"type:varchar(10)"`
}

// TableName specifies the table name for the seller Profile model.
func (Profile) TableName() string {
	return "seller_profiles"
}

// --- DTOs ---

// Response defines the structure for seller profile data sent in API responses.
type Response struct {
	ID            uuid.UUID     `json:"id"`
	User          user.Response `json:"user"`
	TermsAccepted bool          `json:"terms_accepted"`
	Address       string        `json:"address"`
	SelectedDay   *string       `json:"selected_day"`
}

// ToResponse converts a Profile model to a Response DTO.
func ToResponse(p *Profile) Response {
	return Response{
		ID:            p.ID,
		User:          user.ToResponse(&p.User),
		TermsAccepted: p.TermsAccepted,
		Address:       p.Address,
		SelectedDay:   p.SelectedDay,
	}
}

// AcceptTermsRequest is the payload for the terms-acceptance step.
type AcceptTermsRequest struct {
	TermsAccepted *bool `json:"terms_accepted" binding:"required"`
}

// SelectDayRequest is the payload for the day-selection step. The oneof tag
// is the case-sensitive whitelist of canonical day names.
type SelectDayRequest struct {
	SelectedDay string `json:"selected_day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}
