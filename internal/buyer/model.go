// File: internal/buyer/model.go
package buyer

import (
	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/user"

	"github.com/google/uuid"
)

// Profile carries a buyer's onboarding flags. Status is derived from
// TermsAccepted on every read; there is no stored state column.
type Profile struct {
	common.BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_buyer_profiles_user_id,unique"`
	User          user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	TermsAccepted bool      `gorm:"not null;default:false"`
	// PaymentStatus is reserved; no flow reads or enforces it.
	PaymentStatus bool `gorm:"not null;default:true"`
}

// TableName specifies the table name for the buyer Profile model.
func (Profile) TableName() string {
	return "buyer_profiles"
}

// --- DTOs ---

// Response defines the structure for buyer profile data sent in API responses.
type Response struct {
	ID            uuid.UUID     `json:"id"`
	User          user.Response `json:"user"`
	TermsAccepted bool          `json:"terms_accepted"`
}

// ToResponse converts a Profile model to a Response DTO.
func ToResponse(p *Profile) Response {
	return Response{
		ID:            p.ID,
		User:          user.ToResponse(&p.User),
		TermsAccepted: p.TermsAccepted,
	}
}

// AcceptTermsRequest is the payload for the terms-acceptance step.
// terms_accepted must be present, hence the pointer with required.
type AcceptTermsRequest struct {
	TermsAccepted *bool `json:"terms_accepted" binding:"required"`
}
