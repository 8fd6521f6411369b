package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// RegisterRequest is the payload for creating a storefront account.
// Everyone starts on the customer tier.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest carries credentials plus the caller's IP for rate limiting.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ClientIP string `json:"-"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// UserProfile is the public shape of a user account.
type UserProfile struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     *string    `json:"phone,omitempty"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// FromModel converts a user row into its public profile.
func FromModel(user *models.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// UpgradeRequest asks to move the account onto a trade pricing tier.
type UpgradeRequest struct {
	RequestedRole enums.Role `json:"requested_role" validate:"required"`
	BusinessName  string     `json:"business_name" validate:"required"`
	GSTIN         *string    `json:"gstin,omitempty"`
	Note          *string    `json:"note,omitempty"`
}

// ApprovalDecision is an admin's verdict on an upgrade request.
type ApprovalDecision struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty"`
}

// ApprovalFilters narrows the admin approval listing.
type ApprovalFilters struct {
	Status        *enums.ApprovalStatus
	RequestedRole *enums.Role
}
