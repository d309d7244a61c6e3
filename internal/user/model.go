// File: internal/user/model.go
package user

import (
	"bazaar_onboarding_backend/internal/common" // For BaseModel

	"github.com/google/uuid"
)

// Marketplace participant kinds. UserType is fixed at creation; there is
// no update path.
const (
	TypeBuyer  = "buyer"
	TypeSeller = "seller"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel        // Embeds ID, CreatedAt, UpdatedAt
	Username         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username,unique"`
	UserType         string `gorm:"type:varchar(10);not null"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsValidType reports whether t names a known participant kind.
func IsValidType(t string) bool {
	return t == TypeBuyer || t == TypeSeller
}

// --- DTOs ---

// Response defines the structure for user data sent in API responses.
type Response struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	UserType string    `json:"user_type"`
}

// ToResponse converts a User model to a Response DTO.
func ToResponse(u *User) Response {
	return Response{
		ID:       u.ID,
		Username: u.Username,
		UserType: u.UserType,
	}
}
