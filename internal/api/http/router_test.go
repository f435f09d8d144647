package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/observability"
	"github.com/fotosexpress/portal/internal/repository/memory"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

const (
	adminEmail    = "admin@fotos.test"
	adminPassword = "admin-password"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "fotos-test", Version: "test", PublicURL: "http://portal.test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			ActivationTokenTTLHours: 72,
			BcryptCost:              bcrypt.MinCost,
			MinPasswordLength:       8,
		},
	}
	store := memory.NewStore(nil)
	server := NewServer(ServerOptions{Config: cfg, Repos: store})
	require.NoError(t, server.Auth.EnsureAdmin(context.Background(), adminEmail, adminPassword, "Admin"))
	app := server.App
	return &testServer{app: app, store: store}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *dto.ErrorBody  `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/staff/login", "", dto.StaffLoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, status)
	return decode[dto.LoginResponse](t, env).Auth.Token
}

func (s *testServer) seedPhotographer(t *testing.T, id, email, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.store.StaffUsers.Create(context.Background(), &domain.StaffUser{
		ID:           id,
		Nombre:       "Foto " + id,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.StaffRolePhotographer,
		IsActive:     true,
	}))
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/api/health/ready", nil)
	resp, err := srv.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, env := srv.do(t, http.MethodGet, "/api/health/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	snap := decode[observability.Snapshot](t, env)
	assert.GreaterOrEqual(t, snap.TotalRequests, int64(2))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperrors.CodeRouteNotFound, env.Error.Code)
	assert.Equal(t, "/api/nothing-here", env.Error.Details["path"])
}

func TestAmbulantLookupAndDelivery(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, srv.store.Zones.Create(ctx, &domain.Zone{ID: "Z01", Nombre: "Viejo San Juan", Activa: true}))
	srv.seedPhotographer(t, "SU01", "foto@fotos.test", "photo-password")

	status, env := srv.do(t, http.MethodPost, "/api/ambulant-clients", "", dto.AmbulantClientCreateRequest{
		Nombre:   "Marcos Soto",
		Telefono: "787-555-0123",
		ZonaID:   "Z01",
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[dto.ClientResponse](t, env)
	assert.Equal(t, "Viejo San Juan", created.ZonaNombre)
	assert.Equal(t, string(domain.ClientStatusWaiting), created.Status)

	status, env = srv.do(t, http.MethodGet, "/api/ambulant-clients/phone/17875550123", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, decode[dto.ClientResponse](t, env).ID)

	status, env = srv.do(t, http.MethodGet, "/api/ambulant-clients/phone/7870000000", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, env.Error.Code)
	assert.Equal(t, apperrors.ResourceClient, env.Error.Details["resource"])

	status, env = srv.do(t, http.MethodGet, "/api/ambulant-clients/phone/12345", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)

	deliver := dto.DeliverPhotosRequest{Photos: []string{"https://cdn.test/1.jpg", "https://cdn.test/2.jpg"}}
	status, _ = srv.do(t, http.MethodPut, "/api/ambulant-clients/"+created.ID+"/photos", "", deliver)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := srv.login(t, "foto@fotos.test", "photo-password")
	status, env = srv.do(t, http.MethodPut, "/api/ambulant-clients/"+created.ID+"/photos", token, deliver)
	require.Equal(t, http.StatusOK, status)
	delivered := decode[dto.ClientResponse](t, env)
	assert.Equal(t, string(domain.ClientStatusDelivered), delivered.Status)
	assert.Len(t, delivered.FotosSubidas, 2)
	require.NotNil(t, delivered.FotografoAsignado)
	assert.Equal(t, "SU01", *delivered.FotografoAsignado)

	status, env = srv.do(t, http.MethodPut, "/api/ambulant-clients/"+created.ID+"/photos", token, deliver)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.CodeInvalidTransition, env.Error.Code)
}

func TestPhotographerCannotDeliverForSomeoneElse(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, srv.store.Zones.Create(ctx, &domain.Zone{ID: "Z01", Nombre: "Condado", Activa: true}))
	srv.seedPhotographer(t, "SU01", "uno@fotos.test", "photo-password")
	srv.seedPhotographer(t, "SU02", "dos@fotos.test", "photo-password")

	_, env := srv.do(t, http.MethodPost, "/api/ambulant-clients", "", dto.AmbulantClientCreateRequest{
		Nombre: "Ana", Telefono: "7875551111", ZonaID: "Z01",
	})
	rec := decode[dto.ClientResponse](t, env)

	token := srv.login(t, "uno@fotos.test", "photo-password")
	status, env := srv.do(t, http.MethodPut, "/api/ambulant-clients/"+rec.ID+"/photos", token,
		dto.DeliverPhotosRequest{Photos: []string{"u1"}, StaffID: "SU02"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, env.Error.Code)
}

func TestActivityLookupRequiresSelection(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodGet, "/api/activity-clients/phone/7875550123?negocioId=B01", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)
	assert.Equal(t, apperrors.ReasonMissingSelection, env.Error.Details["reason"])
}

func TestCatalogRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	srv.seedPhotographer(t, "SU01", "foto@fotos.test", "photo-password")

	status, _ := srv.do(t, http.MethodPost, "/api/zones", "", dto.ZoneCreateRequest{Nombre: "Isla Verde"})
	assert.Equal(t, http.StatusUnauthorized, status)

	photoToken := srv.login(t, "foto@fotos.test", "photo-password")
	status, _ = srv.do(t, http.MethodPost, "/api/zones", photoToken, dto.ZoneCreateRequest{Nombre: "Isla Verde"})
	assert.Equal(t, http.StatusForbidden, status)

	adminToken := srv.login(t, adminEmail, adminPassword)
	status, env := srv.do(t, http.MethodPost, "/api/zones", adminToken, dto.ZoneCreateRequest{Nombre: "Isla Verde"})
	require.Equal(t, http.StatusCreated, status)
	zone := decode[dto.ZoneResponse](t, env)
	assert.True(t, zone.Activa)

	status, env = srv.do(t, http.MethodPut, "/api/zones/"+zone.ID+"/staff", adminToken, dto.AssignStaffRequest{StaffIDs: []string{"SU01"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"SU01"}, decode[dto.ZoneResponse](t, env).FotografosAsignados)

	status, env = srv.do(t, http.MethodGet, "/api/zones/active", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.ZoneResponse](t, env), 1)
}

func TestValidationErrorsNameFields(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodPost, "/api/services", "", dto.ServiceRequestCreateRequest{
		Tipo:     "fiesta",
		Contacto: dto.ServiceContactPayload{Nombre: "Luis", Telefono: "7875550000"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	fields, ok := env.Error.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "oneof", fields["tipo"])
}

func TestApprovalAndActivationFlow(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodPost, "/api/staff", "", dto.StaffApplicationCreateRequest{
		Nombre:   "Carla Rivera",
		Email:    "carla@fotos.test",
		Telefono: "7875552222",
	})
	require.Equal(t, http.StatusCreated, status)
	application := decode[dto.StaffApplicationResponse](t, env)
	assert.Equal(t, string(domain.ApplicationStatusPending), application.Status)

	adminToken := srv.login(t, adminEmail, adminPassword)
	status, env = srv.do(t, http.MethodPost, "/api/staff/approve/"+application.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	approval := decode[dto.ApprovalResponse](t, env)
	assert.Equal(t, application.ID, approval.ID)
	assert.Equal(t, "carla@fotos.test", approval.Email)

	link, err := url.Parse(approval.ActivationLink)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	status, _ = srv.do(t, http.MethodPost, "/api/staff/approve/"+application.ID, adminToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = srv.do(t, http.MethodGet, "/api/staff/validate-token?token="+token, "", nil)
	require.Equal(t, http.StatusOK, status)
	identity := decode[dto.TokenIdentityResponse](t, env)
	assert.Equal(t, "Carla Rivera", identity.Nombre)

	status, _ = srv.do(t, http.MethodPost, "/api/staff/login", "", dto.StaffLoginRequest{Email: "carla@fotos.test", Password: "new-password"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = srv.do(t, http.MethodPost, "/api/staff/activate", "", dto.ActivateRequest{Token: token, Password: "new-password"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[dto.StaffUserResponse](t, env).IsActive)

	status, env = srv.do(t, http.MethodGet, "/api/staff/validate-token?token="+token, "", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.CodeTokenAlreadyUsed, env.Error.Code)

	status, env = srv.do(t, http.MethodGet, "/api/staff/validate-token?token=nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeTokenNotFound, env.Error.Code)

	staffToken := srv.login(t, "carla@fotos.test", "new-password")
	assert.NotEmpty(t, staffToken)

	status, _ = srv.do(t, http.MethodPost, "/api/staff/logout", staffToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = srv.do(t, http.MethodPost, "/api/staff/logout", staffToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
