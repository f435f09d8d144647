package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func approveP01(t *testing.T, f *fixture) string {
	t.Helper()
	seedApplication(t, f, "P01", "javier@fotos.test")
	result, err := f.staff.Approve(context.Background(), "P01")
	require.NoError(t, err)
	return tokenFromLink(t, result.ActivationLink)
}

func TestValidateActivationToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := approveP01(t, f)

	got, err := f.auth.ValidateActivationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "javier@fotos.test", got.Email)
	assert.Equal(t, "Javier Rodriguez", got.Nombre)

	// validation never consumes the token
	_, err = f.auth.ValidateActivationToken(ctx, token)
	require.NoError(t, err)

	_, err = f.auth.ValidateActivationToken(ctx, "unknown")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenNotFound))
}

func TestValidateActivationToken_ExpiredIsNotNotFound(t *testing.T) {
	f := newFixture(t)
	token := approveP01(t, f)

	f.clock.Advance(73 * time.Hour)
	_, err := f.auth.ValidateActivationToken(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenExpired))
	assert.False(t, apperrors.Is(err, apperrors.CodeTokenNotFound))

	_, err = f.auth.Activate(context.Background(), token, "supersecret")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenExpired))
}

func TestActivate_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := approveP01(t, f)

	_, err := f.auth.Activate(ctx, token, "short")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	user, err := f.auth.Activate(ctx, token, "supersecret")
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	_, err = f.auth.Activate(ctx, token, "supersecret")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenAlreadyUsed))
	_, err = f.auth.ValidateActivationToken(ctx, token)
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenAlreadyUsed))
}

// droppingTokens fails the next Redeem calls the way a lost database
// connection would, before anything is written.
type droppingTokens struct {
	repository.ActivationTokenRepository
	failures int
}

func (d *droppingTokens) Redeem(ctx context.Context, token, passwordHash string, at time.Time) error {
	if d.failures > 0 {
		d.failures--
		return errors.New("connection reset by peer")
	}
	return d.ActivationTokenRepository.Redeem(ctx, token, passwordHash, at)
}

func TestActivate_RetryAfterBackendFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := approveP01(t, f)
	f.auth.tokens = &droppingTokens{ActivationTokenRepository: f.store.Tokens, failures: 1}

	_, err := f.auth.Activate(ctx, token, "supersecret")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConnection))

	stored, err := f.store.Tokens.GetByToken(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt)
	_, err = f.auth.ValidateActivationToken(ctx, token)
	require.NoError(t, err)

	user, err := f.auth.Activate(ctx, token, "supersecret")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	_, err = f.auth.LoginStaff(ctx, "javier@fotos.test", "supersecret")
	require.NoError(t, err)
}

func TestLoginLogoutAndChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := approveP01(t, f)

	_, err := f.auth.LoginStaff(ctx, "javier@fotos.test", "supersecret")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized), "inactive accounts cannot log in")

	_, err = f.auth.Activate(ctx, token, "supersecret")
	require.NoError(t, err)

	login, err := f.auth.LoginStaff(ctx, "Javier@fotos.test", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.NotNil(t, login.Staff.ZonasAsignadas)

	claims, err := f.auth.TokenManager().ParseToken(login.Token)
	require.NoError(t, err)
	_, err = f.store.Sessions.Get(ctx, claims.ID)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, claims.ID))
	_, err = f.store.Sessions.Get(ctx, claims.ID)
	assert.Error(t, err)

	_, err = f.auth.LoginStaff(ctx, "javier@fotos.test", "wrong-password")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	err = f.auth.ChangePassword(ctx, "javier@fotos.test", "wrong-password", "newsecret1")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	err = f.auth.ChangePassword(ctx, "javier@fotos.test", "supersecret", "short")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	require.NoError(t, f.auth.ChangePassword(ctx, "javier@fotos.test", "supersecret", "newsecret1"))
	_, err = f.auth.LoginStaff(ctx, "javier@fotos.test", "newsecret1")
	require.NoError(t, err)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.EnsureAdmin(ctx, "", "", ""))
	require.NoError(t, f.auth.EnsureAdmin(ctx, "Admin@Fotos.test", "adminpass1", "Administrador"))
	require.NoError(t, f.auth.EnsureAdmin(ctx, "admin@fotos.test", "different1", "Otro"))

	admin, err := f.store.StaffUsers.GetByEmail(ctx, "admin@fotos.test")
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)

	_, err = f.auth.LoginStaff(ctx, "admin@fotos.test", "adminpass1")
	require.NoError(t, err)
}
