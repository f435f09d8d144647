package portal

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func seedApplication(t *testing.T, api *apiFixture, id, email string) {
	t.Helper()
	require.NoError(t, api.store.Applications.Create(context.Background(), &domain.StaffApplication{
		ID:     id,
		Nombre: "Carla Rivera",
		Email:  email,
		Status: domain.ApplicationStatusPending,
	}))
}

func TestStaffFlow_ApproveActivateOnce(t *testing.T) {
	api := startAPI(t)
	ctx := context.Background()
	seedApplication(t, api, "P01", "carla@fotos.test")
	flow := NewStaffFlow(api.client, nil)

	_, err := flow.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	approval, err := flow.Approve(ctx, "P01")
	require.NoError(t, err)
	assert.NotEmpty(t, approval.ActivationLink)
	assert.Equal(t, "carla@fotos.test", approval.Email)

	stored, err := api.store.Applications.GetByID(ctx, "P01")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, stored.Status)

	_, err = flow.Reject(ctx, "P01")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	link, err := url.Parse(approval.ActivationLink)
	require.NoError(t, err)
	token := link.Query().Get("token")

	identity, err := flow.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Carla Rivera", identity.Nombre)

	user, err := flow.Activate(ctx, token, "carla-password", "carla-password")
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	_, err = flow.Activate(ctx, token, "carla-password", "carla-password")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenAlreadyUsed))
	assert.True(t, apperrors.IsTokenError(err))
}

func TestStaffFlow_ExpiredTokenIsExpiredNotNotFound(t *testing.T) {
	api := startAPI(t)
	ctx := context.Background()
	require.NoError(t, api.store.StaffUsers.Create(ctx, &domain.StaffUser{
		ID: "SU9", Nombre: "Late", Email: "late@fotos.test", Role: domain.StaffRolePhotographer,
	}))
	require.NoError(t, api.store.Tokens.Create(ctx, &domain.ActivationToken{
		Token:     "stale-token",
		StaffID:   "SU9",
		Email:     "late@fotos.test",
		Nombre:    "Late",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	flow := NewStaffFlow(api.client, nil)

	_, err := flow.ValidateToken(ctx, "stale-token")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenExpired))

	_, err = flow.ValidateToken(ctx, "missing-token")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenNotFound))
}

func TestStaffFlow_LocalPasswordChecks(t *testing.T) {
	flow := NewStaffFlow(panicAPI{}, nil)
	ctx := context.Background()

	_, err := flow.Activate(ctx, "tok", "short", "short")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = flow.Activate(ctx, "tok", "long-enough", "different!")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.Equal(t, "Las contraseñas no coinciden.", Describe(err))

	err = flow.ChangePassword(ctx, "a@b.c", "old-password", "new-password", "new-passw0rd")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestStaffFlow_ChangePasswordAndResume(t *testing.T) {
	api := startAPI(t)
	ctx := context.Background()
	profiles := NewFileProfileStore(filepath.Join(t.TempDir(), "profile.json"))
	flow := NewStaffFlow(api.client, profiles)

	require.NoError(t, flow.ChangePassword(ctx, staffEmail, staffPassword, "brand-new-pass", "brand-new-pass"))

	_, err := flow.Login(ctx, staffEmail, staffPassword)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	profile, err := flow.Login(ctx, staffEmail, "brand-new-pass")
	require.NoError(t, err)
	assert.Equal(t, "S1", profile.Staff.ID)

	api.client.SetToken("")
	resumed, err := flow.Resume()
	require.NoError(t, err)
	require.NotNil(t, resumed)
	assert.Equal(t, profile.Token, api.client.Token())

	require.NoError(t, flow.Logout(ctx))
	assert.Empty(t, api.client.Token())
	gone, err := profiles.Load()
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// panicAPI fails the test if a flow reaches the backend.
type panicAPI struct{ StaffAPI }
