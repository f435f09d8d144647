package portal

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/fotosexpress/portal/internal/api/http"
	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository/memory"
)

const (
	adminEmail    = "admin@fotos.test"
	adminPassword = "admin-password"
	staffEmail    = "s1@fotos.test"
	staffPassword = "s1-password"
)

type apiFixture struct {
	store  *memory.Store
	client *Client
	server *httptest.Server
}

// startAPI runs the real API over an in-memory store with one zone, one
// active photographer S1 and the bootstrap admin.
func startAPI(t *testing.T) *apiFixture {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "fotos-test", PublicURL: "http://portal.test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			ActivationTokenTTLHours: 72,
			BcryptCost:              bcrypt.MinCost,
			MinPasswordLength:       8,
		},
	}
	ctx := context.Background()
	store := memory.NewStore(nil)
	server := httptransport.NewServer(httptransport.ServerOptions{Config: cfg, Repos: store})
	require.NoError(t, server.Auth.EnsureAdmin(ctx, adminEmail, adminPassword, "Admin"))

	require.NoError(t, store.Zones.Create(ctx, &domain.Zone{ID: "Z01", Nombre: "Viejo San Juan", Activa: true}))
	hash, err := auth.HashPassword(staffPassword, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.StaffUsers.Create(ctx, &domain.StaffUser{
		ID:           "S1",
		Nombre:       "Pedro Fotógrafo",
		Email:        staffEmail,
		PasswordHash: hash,
		Role:         domain.StaffRolePhotographer,
		IsActive:     true,
	}))

	ts := httptest.NewServer(adaptor.FiberApp(server.App))
	client := NewClient(ts.URL + "/api")
	t.Cleanup(func() {
		client.CloseIdleConnections()
		ts.Close()
	})
	return &apiFixture{store: store, client: client, server: ts}
}

func (f *apiFixture) seedAmbulant(t *testing.T, id, phone string) {
	t.Helper()
	require.NoError(t, f.store.Clients.Create(context.Background(), &domain.ClientRecord{
		ID:       id,
		Kind:     domain.ClientKindAmbulant,
		Nombre:   "Cliente " + id,
		Telefono: phone,
		Zone:     &domain.ZoneRef{ZoneID: "Z01", ZoneName: "Viejo San Juan"},
		Status:   domain.ClientStatusWaiting,
	}))
	time.Sleep(time.Millisecond)
}

func (f *apiFixture) loginAs(t *testing.T, email, password string) {
	t.Helper()
	resp, err := f.client.Login(context.Background(), email, password)
	require.NoError(t, err)
	f.client.SetToken(resp.Auth.Token)
}
