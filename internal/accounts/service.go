package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/pkg/auth"
	"github.com/kiranalabs/bazaari-backend/pkg/config"
	"github.com/kiranalabs/bazaari-backend/pkg/db"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
	"github.com/kiranalabs/bazaari-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the account controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserProfile, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, jti string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	RequestUpgrade(ctx context.Context, userID uuid.UUID, req UpgradeRequest) (*models.ApprovalRequest, error)
	ListApprovals(ctx context.Context, params pagination.Params, filters ApprovalFilters) (pagination.Page[models.ApprovalRequest], error)
	DecideApproval(ctx context.Context, adminID, requestID uuid.UUID, decision ApprovalDecision) (*models.ApprovalRequest, error)
}

type sessionStore interface {
	StoreSession(ctx context.Context, sessionID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, sessionID string) error
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type service struct {
	repo     *Repository
	db       *db.Client
	sessions sessionStore
	limiter  rateLimiter

	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	limitCfg    config.RateLimitConfig
}

// ServiceParams bundles the dependencies required to build an accounts service.
type ServiceParams struct {
	Repo           *Repository
	DB             *db.Client
	Sessions       sessionStore
	Limiter        rateLimiter
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	RateLimits     config.RateLimitConfig
}

// NewService constructs an accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	return &service{
		repo:        params.Repo,
		db:          params.DB,
		sessions:    params.Sessions,
		limiter:     params.Limiter,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		limitCfg:    params.RateLimits,
	}, nil
}

// Register creates a customer-tier account.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}

	if err := s.allow(ctx, "register:email:"+email, s.limitCfg.RegisterEmailLimit, s.limitCfg.RegisterWindow); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err = repo.CreateUser(ctx, &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        req.Phone,
			Role:         enums.RoleCustomer,
			IsActive:     true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "register")
	}

	profile := FromModel(user)
	return &profile, nil
}

// Login verifies credentials, mints a JWT and opens a server-side session.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.allow(ctx, "login:email:"+email, s.limitCfg.LoginEmailLimit, s.limitCfg.LoginWindow); err != nil {
		return nil, err
	}
	if req.ClientIP != "" {
		if err := s.allow(ctx, "login:ip:"+req.ClientIP, s.limitCfg.LoginIPLimit, s.limitCfg.LoginWindow); err != nil {
			return nil, err
		}
	}

	user, err := s.authenticate(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	token, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.Normalize(),
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.StoreSession(ctx, jti, s.jwtCfg.SessionTTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &LoginResponse{
		AccessToken: token,
		User:        FromModel(user),
	}, nil
}

// Logout revokes the server-side session behind the token's jti.
func (s *service) Logout(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.RevokeSession(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// GetProfile loads the user's public profile.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	profile := FromModel(user)
	return &profile, nil
}

// RequestUpgrade files a pending approval request for a trade tier.
func (s *service) RequestUpgrade(ctx context.Context, userID uuid.UUID, req UpgradeRequest) (*models.ApprovalRequest, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if req.RequestedRole != enums.RoleReseller && req.RequestedRole != enums.RoleStockist {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested_role must be reseller or stockist")
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business_name is required")
	}

	var created *models.ApprovalRequest
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if user.Role == req.RequestedRole {
			return pkgerrors.New(pkgerrors.CodeConflict, "account already on the requested tier")
		}

		pending, err := repo.HasPendingApproval(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending approvals")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeConflict, "an upgrade request is already pending")
		}

		created, err = repo.CreateApproval(ctx, &models.ApprovalRequest{
			ID:            uuid.New(),
			UserID:        userID,
			RequestedRole: req.RequestedRole,
			Status:        enums.ApprovalStatusPending,
			BusinessName:  strings.TrimSpace(req.BusinessName),
			GSTIN:         req.GSTIN,
			Note:          req.Note,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create approval request")
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "request upgrade")
	}
	return created, nil
}

// ListApprovals returns approval requests for the admin console.
func (s *service) ListApprovals(ctx context.Context, params pagination.Params, filters ApprovalFilters) (pagination.Page[models.ApprovalRequest], error) {
	rows, err := s.repo.ListApprovals(ctx, params, filters)
	if err != nil {
		return pagination.Page[models.ApprovalRequest]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approvals")
	}
	page := pagination.NewPage(rows, params.Limit, func(r models.ApprovalRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})
	return page, nil
}

// DecideApproval records an admin verdict. Approving moves the user onto
// the requested tier in the same transaction.
func (s *service) DecideApproval(ctx context.Context, adminID, requestID uuid.UUID, decision ApprovalDecision) (*models.ApprovalRequest, error) {
	if adminID == uuid.Nil || requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin and request ids are required")
	}

	var decided *models.ApprovalRequest
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		req, err := repo.FindApprovalByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "approval request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load approval request")
		}
		if req.Status != enums.ApprovalStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("request already %s", req.Status))
		}

		status := enums.ApprovalStatusRejected
		if decision.Approve {
			status = enums.ApprovalStatusApproved
		}
		now := time.Now().UTC()

		if err := repo.DecideApproval(ctx, requestID, status, adminID, now, decision.Note); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decide approval")
		}

		if decision.Approve {
			if err := repo.UpdateRole(ctx, req.UserID, req.RequestedRole); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply role upgrade")
			}
		}

		req.Status = status
		req.DecidedBy = &adminID
		req.DecidedAt = &now
		if decision.Note != nil {
			req.Note = decision.Note
		}
		decided = req
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "decide approval")
	}
	return decided, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) allow(ctx context.Context, scope string, limit int, window time.Duration) error {
	if limit <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, scope, int64(limit), window)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later")
	}
	return nil
}
