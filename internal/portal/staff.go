package portal

import (
	"context"
	"strings"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// MinPasswordLength is enforced before a password ever leaves the client.
const MinPasswordLength = 8

// StaffAPI is the backend surface of the staff flows.
type StaffAPI interface {
	Approve(ctx context.Context, applicationID string) (*dto.ApprovalResponse, error)
	Reject(ctx context.Context, applicationID string) (*domain.StaffApplication, error)
	ValidateToken(ctx context.Context, token string) (*dto.TokenIdentityResponse, error)
	Activate(ctx context.Context, token, password string) (*domain.StaffUser, error)
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

// StaffFlow drives application review, account activation and staff sessions.
type StaffFlow struct {
	api      StaffAPI
	profiles ProfileStore
}

// NewStaffFlow builds the flow. profiles may be nil when sessions need not survive restarts.
func NewStaffFlow(api StaffAPI, profiles ProfileStore) *StaffFlow {
	if profiles == nil {
		profiles = NewMemoryProfileStore()
	}
	return &StaffFlow{api: api, profiles: profiles}
}

// Approval is what an administrator hands to the new photographer.
type Approval struct {
	ApplicationID  string
	StaffID        string
	Nombre         string
	Email          string
	ActivationLink string
}

// Identity is who an activation token belongs to.
type Identity struct {
	Email  string
	Nombre string
}

// Approve approves a pending application and returns its activation link.
func (f *StaffFlow) Approve(ctx context.Context, applicationID string) (*Approval, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, apperrors.NewValidationError("application id required", map[string]any{"field": "id"})
	}
	resp, err := f.api.Approve(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return &Approval{
		ApplicationID:  resp.ID,
		StaffID:        resp.StaffID,
		Nombre:         resp.Nombre,
		Email:          resp.Email,
		ActivationLink: resp.ActivationLink,
	}, nil
}

// Reject rejects a pending application.
func (f *StaffFlow) Reject(ctx context.Context, applicationID string) (*domain.StaffApplication, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, apperrors.NewValidationError("application id required", map[string]any{"field": "id"})
	}
	return f.api.Reject(ctx, applicationID)
}

// ValidateToken returns the identity bound to token without consuming it.
func (f *StaffFlow) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewTokenNotFound()
	}
	resp, err := f.api.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Identity{Email: resp.Email, Nombre: resp.Nombre}, nil
}

// Activate sets the first password. Length and confirmation are checked
// locally so a bad form never reaches the backend.
func (f *StaffFlow) Activate(ctx context.Context, token, password, confirmation string) (*domain.StaffUser, error) {
	if err := checkNewPassword(password, confirmation, "password"); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewTokenNotFound()
	}
	return f.api.Activate(ctx, token, password)
}

// ChangePassword replaces a password after local checks.
func (f *StaffFlow) ChangePassword(ctx context.Context, email, currentPassword, newPassword, confirmation string) error {
	if strings.TrimSpace(email) == "" || currentPassword == "" {
		return apperrors.NewValidationError("email and current password required", nil)
	}
	if err := checkNewPassword(newPassword, confirmation, "newPassword"); err != nil {
		return err
	}
	if newPassword == currentPassword {
		return apperrors.NewValidationError("new password must differ from the current one", map[string]any{"field": "newPassword"})
	}
	return f.api.ChangePassword(ctx, strings.TrimSpace(email), currentPassword, newPassword)
}

// Login opens a session, keeps its token on the client and persists the profile.
func (f *StaffFlow) Login(ctx context.Context, email, password string) (*Profile, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	resp, err := f.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	profile := Profile{Staff: resp.Staff, Token: resp.Auth.Token, ExpiresAt: resp.Auth.ExpiresAt}
	if err := f.profiles.Save(profile); err != nil {
		return nil, err
	}
	f.api.SetToken(profile.Token)
	return &profile, nil
}

// Resume restores a persisted session, if any is still valid.
func (f *StaffFlow) Resume() (*Profile, error) {
	profile, err := f.profiles.Load()
	if err != nil || profile == nil {
		return nil, err
	}
	f.api.SetToken(profile.Token)
	return profile, nil
}

// Logout revokes the session and forgets the profile, even when the backend is unreachable.
func (f *StaffFlow) Logout(ctx context.Context) error {
	err := f.api.Logout(ctx)
	f.api.SetToken("")
	if clearErr := f.profiles.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	if apperrors.Is(err, apperrors.CodeUnauthorized) {
		return nil
	}
	return err
}

func checkNewPassword(password, confirmation, field string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"field": field, "minLength": MinPasswordLength})
	}
	if password != confirmation {
		return apperrors.NewValidationError("passwords do not match", map[string]any{"field": "confirmation"})
	}
	return nil
}
