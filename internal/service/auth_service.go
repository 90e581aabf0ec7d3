package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and credential flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	CompanyID string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, cfg.RefreshTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// Register creates a company admin or coach account and signs it in. A company admin
// registering without a company starts a new one.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, domain.TokenPair, error) {
	if input.Role != domain.RoleCompanyAdmin && input.Role != domain.RoleCoach {
		return nil, domain.TokenPair{}, fieldError("role", "role must be company_admin or coach")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
	}
	if input.Role == domain.RoleCompanyAdmin {
		companyID := strings.TrimSpace(input.CompanyID)
		if companyID == "" {
			companyID = uuid.NewString()
		}
		user.CompanyID = &companyID
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.TokenPair{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, domain.TokenPair{}, apperrors.MapError(err)
	}

	pair, err := s.tokenMgr.IssuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, pair, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, domain.TokenPair{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, domain.TokenPair{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.TokenPair{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status == domain.UserStatusSuspended {
		return nil, domain.TokenPair{}, apperrors.NewForbidden("account suspended")
	}
	s.upgradeHash(ctx, user, password)

	pair, err := s.tokenMgr.IssuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokenMgr.ParseToken(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return domain.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domain.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
		}
		return domain.TokenPair{}, apperrors.MapError(err)
	}
	if user.Status == domain.UserStatusSuspended {
		return domain.TokenPair{}, apperrors.NewForbidden("account suspended")
	}

	access, exp, err := s.tokenMgr.GenerateAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	pair := domain.TokenPair{AccessToken: access, AccessExpiresAt: exp, RefreshToken: refreshToken}
	if claims.ExpiresAt != nil {
		pair.RefreshExpiresAt = claims.ExpiresAt.Time
	}
	return pair, nil
}

// RequestPasswordReset issues a reset token and hands it to the notification channel.
// Unknown emails return (nil, nil) so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.New(events.EventPasswordResetRequested, user.ID,
		events.Actor{UserID: user.ID, Role: user.Role},
		events.PasswordResetPayload{Email: user.Email, Token: token.Token, ExpiresAt: token.ExpiresAt}))
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("invalid reset token", nil)
		}
		return apperrors.MapError(err)
	}
	if !token.Usable(s.now()) {
		return apperrors.NewValidationError("reset token expired or used", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return lookupError(err, "user", token.UserID)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("reset token expired or used", nil)
		}
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return lookupError(err, "user", userID)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// upgradeHash re-hashes the password after a successful login when the configured
// cost changed. Failures only log; the login still succeeds.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	if !auth.NeedsRehash(user.PasswordHash, s.bcryptCost) {
		return
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// User loads an account by ID.
func (s *AuthService) User(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user", userID)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
