package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
)

// Repository exposes persistence operations for users and their
// role-upgrade approval requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateUser inserts a new user row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = enums.RoleCustomer
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail loads a user by their lowercase email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole moves a user onto a new pricing tier.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role enums.Role) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateApproval inserts a pending upgrade request.
func (r *Repository) CreateApproval(ctx context.Context, req *models.ApprovalRequest) (*models.ApprovalRequest, error) {
	if req.Status == "" {
		req.Status = enums.ApprovalStatusPending
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// FindApprovalByID loads one approval request.
func (r *Repository) FindApprovalByID(ctx context.Context, id uuid.UUID) (*models.ApprovalRequest, error) {
	var req models.ApprovalRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPendingApproval reports whether the user already has an undecided request.
func (r *Repository) HasPendingApproval(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApprovalRequest{}).
		Where("user_id = ? AND status = ?", userID, enums.ApprovalStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListApprovals returns approval requests newest-first with keyset pagination.
func (r *Repository) ListApprovals(ctx context.Context, params pagination.Params, filters ApprovalFilters) ([]models.ApprovalRequest, error) {
	qb := r.db.WithContext(ctx).Model(&models.ApprovalRequest{})

	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.RequestedRole != nil {
		qb = qb.Where("requested_role = ?", *filters.RequestedRole)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		qb = qb.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.ApprovalRequest
	err = qb.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecideApproval records an admin decision on a pending request. The
// status guard keeps two admins from deciding the same request twice.
func (r *Repository) DecideApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus, decidedBy uuid.UUID, decidedAt time.Time, note *string) error {
	updates := map[string]any{
		"status":     status,
		"decided_by": decidedBy,
		"decided_at": decidedAt,
	}
	if note != nil {
		updates["note"] = *note
	}

	result := r.db.WithContext(ctx).
		Model(&models.ApprovalRequest{}).
		Where("id = ? AND status = ?", id, enums.ApprovalStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
