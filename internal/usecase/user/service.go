package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/domain/auth"
	userDomain "search-and-destroy/internal/domain/user"
	"search-and-destroy/internal/logger"
	appErrors "search-and-destroy/pkg/errors"
	"search-and-destroy/pkg/utils"
)

const historyWriteTimeout = 5 * time.Second

// Service implements account use cases: registration, login with token
// issuance, admin management and login history.
type Service struct {
	userRepo    userDomain.Repository
	historyRepo userDomain.HistoryRepository
	config      *config.Config
}

func NewService(userRepo userDomain.Repository, historyRepo userDomain.HistoryRepository, cfg *config.Config) *Service {
	return &Service{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		config:      cfg,
	}
}

// Register creates a regular account with a bcrypt-hashed password and a
// 6-digit numeric recovery PIN.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	return s.create(ctx, req, userDomain.RoleUser)
}

// CreateAdmin creates an admin account. Callers are gated to admins at
// the route level.
func (s *Service) CreateAdmin(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	return s.create(ctx, req, userDomain.RoleAdmin)
}

func (s *Service) create(ctx context.Context, req *RegisterRequest, role string) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "email, password and recovery PIN are required", err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}
	if err := utils.ValidateRecoveryPIN(req.RecoveryPIN); err != nil {
		return nil, userDomain.ErrInvalidPIN
	}

	email := utils.SanitizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, userDomain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, userDomain.ErrUserAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &userDomain.User{
		Email:          email,
		PasswordHashed: hashed,
		RecoveryPIN:    req.RecoveryPIN,
		Role:           role,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.String("user_id", u.ID.String()),
		zap.String("email", u.Email),
		zap.String("role", u.Role),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(u), nil
}

// Login verifies credentials and issues a bearer token. The login history
// entry is written fire-and-forget: its failure is logged and never fails
// the login.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "email and password are required", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			logger.Warn("Login attempt with unknown email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed_unknown_user"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with wrong password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_wrong_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateToken(u.ID, u.Email, u.Role, s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	go s.recordLogin(u.ID)

	logger.Info("User logged in",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "user_logged_in"),
	)

	return &AuthResponse{
		User:      ToUserResponse(u),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) recordLogin(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()

	entry := &userDomain.LoginHistory{UserID: userID, LoggedAt: time.Now()}
	if err := s.historyRepo.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record login history",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// GetHistory returns a user's login history. Admins may read anyone's.
func (s *Service) GetHistory(ctx context.Context, ac auth.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	if !ac.IsAdmin() && ac.UserID != userID {
		return nil, appErrors.ErrInsufficientPermissions
	}

	entries, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToHistoryEntries(entries), nil
}

// GetByEmail looks an account up for the recovery flow. Only public
// fields are returned.
func (s *Service) GetByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Update changes email, password or PIN. Self or admin only.
func (s *Service) Update(ctx context.Context, ac auth.Context, userID uuid.UUID, req *UpdateRequest) (*UserResponse, error) {
	if !ac.IsAdmin() && ac.UserID != userID {
		return nil, appErrors.ErrInsufficientPermissions
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		if !utils.IsValidEmail(email) {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "invalid email format", nil)
		}
		u.Email = email
	}
	if req.Password != nil {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
		}
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHashed = hashed
	}
	if req.RecoveryPIN != nil {
		if err := utils.ValidateRecoveryPIN(*req.RecoveryPIN); err != nil {
			return nil, userDomain.ErrInvalidPIN
		}
		u.RecoveryPIN = *req.RecoveryPIN
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User updated",
		zap.String("user_id", u.ID.String()),
		zap.String("updated_by", ac.UserID.String()),
		zap.String("event", "user_updated"),
	)

	return ToUserResponse(u), nil
}

// Delete removes an account. Self or admin only.
func (s *Service) Delete(ctx context.Context, ac auth.Context, userID uuid.UUID) error {
	if !ac.IsAdmin() && ac.UserID != userID {
		return appErrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("deleted_by", ac.UserID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// List returns every account. Admin-only at the route level.
func (s *Service) List(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}
