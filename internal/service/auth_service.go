package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// AuthService coordinates staff login, account activation and password changes.
type AuthService struct {
	staff       repository.StaffUserRepository
	tokens      repository.ActivationTokenRepository
	sessions    repository.SessionStore
	zones       repository.ZoneRepository
	activities  repository.ActivityRepository
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
	bcryptCost  int
	minPassword int
	now         func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	StaffUserRepo repository.StaffUserRepository
	TokenRepo     repository.ActivationTokenRepository
	Sessions      repository.SessionStore
	ZoneRepo      repository.ZoneRepository
	ActivityRepo  repository.ActivityRepository
	Logger        *zap.Logger
}

// LoginResult is a fresh staff session.
type LoginResult struct {
	Staff     *domain.StaffUser
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minPassword := cfg.Auth.MinPasswordLength
	if minPassword <= 0 {
		minPassword = 8
	}
	return &AuthService{
		staff:       deps.StaffUserRepo,
		tokens:      deps.TokenRepo,
		sessions:    deps.Sessions,
		zones:       deps.ZoneRepo,
		activities:  deps.ActivityRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: minPassword,
		now:         time.Now,
	}
}

// LoginStaff authenticates an active staff member and opens a session.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.IsActive {
		return nil, apperrors.NewUnauthorized("account not active")
	}
	if !auth.PasswordMatches(staff.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	issued, err := s.tokenMgr.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	err = s.sessions.Save(ctx, repository.Session{
		ID:        issued.SessionID,
		StaffID:   staff.ID,
		Email:     staff.Email,
		Role:      staff.Role,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := fillAssignments(ctx, s.zones, s.activities, staff); err != nil {
		return nil, err
	}
	return &LoginResult{Staff: staff, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// Logout revokes the session behind a token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return apperrors.MapError(s.sessions.Delete(ctx, sessionID))
}

// ValidateActivationToken reports the identity bound to a token without
// consuming it. Unknown tokens fail as not found, consumed tokens or active
// accounts as already used, and stale tokens as expired.
func (s *AuthService) ValidateActivationToken(ctx context.Context, token string) (*domain.ActivationToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewTokenNotFound()
	}
	stored, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewTokenNotFound()
		}
		return nil, apperrors.MapError(err)
	}
	staff, err := s.staff.GetByID(ctx, stored.StaffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewTokenNotFound()
		}
		return nil, apperrors.MapError(err)
	}

	switch stored.State(s.now(), staff.IsActive) {
	case domain.TokenStateUsed:
		return nil, apperrors.NewTokenAlreadyUsed()
	case domain.TokenStateExpired:
		return nil, apperrors.NewTokenExpired()
	}
	return stored, nil
}

// Activate consumes the token and sets the staff member's password in one
// repository unit, so two concurrent activations cannot both succeed and a
// failed write leaves the token usable for a retry.
func (s *AuthService) Activate(ctx context.Context, token, password string) (*domain.StaffUser, error) {
	if len(password) < s.minPassword {
		return nil, apperrors.NewValidationError("password too short", map[string]any{
			"field":     "password",
			"minLength": s.minPassword,
		})
	}
	stored, err := s.ValidateActivationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.tokens.Redeem(ctx, stored.Token, hash, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleState):
			return nil, apperrors.NewTokenAlreadyUsed()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewTokenNotFound()
		}
		s.logger.Warn("activation failed, token left unused",
			zap.String("staff_id", stored.StaffID), zap.Error(err))
		return nil, apperrors.NewConnectionError(err)
	}

	staff, err := s.staff.GetByID(ctx, stored.StaffID)
	if err != nil {
		return nil, mapRepoError(err, "staff user", map[string]any{"staff_id": stored.StaffID})
	}
	s.logger.Info("staff account activated", zap.String("staff_id", staff.ID))
	return staff, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if len(newPassword) < s.minPassword {
		return apperrors.NewValidationError("password too short", map[string]any{
			"field":     "newPassword",
			"minLength": s.minPassword,
		})
	}
	staff, err := s.staff.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}
	if !staff.IsActive {
		return apperrors.NewUnauthorized("account not active")
	}
	if !auth.PasswordMatches(staff.PasswordHash, currentPassword) {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return mapRepoError(s.staff.UpdatePassword(ctx, staff.ID, hash), "staff user", nil)
}

// EnsureAdmin creates the configured administrator account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if len(password) < s.minPassword {
		return apperrors.NewValidationError("bootstrap admin password too short", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.StaffUser{
		ID:           domain.NewID(domain.PrefixStaffUser),
		Nombre:       name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.StaffRoleAdmin,
		IsActive:     true,
	}
	if err := s.staff.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	s.logger.Info("bootstrap admin ready", zap.String("email", email))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
