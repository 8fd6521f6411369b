package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// ApprovalRequest records a user's request to move onto the reseller or
// stockist pricing tier and the admin decision taken on it.
type ApprovalRequest struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	RequestedRole enums.Role           `gorm:"column:requested_role;type:text;not null"`
	Status        enums.ApprovalStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	BusinessName  string               `gorm:"column:business_name;not null"`
	GSTIN         *string              `gorm:"column:gstin"`
	Note          *string              `gorm:"column:note"`
	DecidedBy     *uuid.UUID           `gorm:"column:decided_by;type:uuid"`
	DecidedAt     *time.Time           `gorm:"column:decided_at"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
