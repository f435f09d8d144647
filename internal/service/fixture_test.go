package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/repository/memory"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time { return c.at }

func (c *fakeClock) Advance(d time.Duration) { c.at = c.at.Add(d) }

type fixture struct {
	clock    *fakeClock
	store    *memory.Store
	catalog  *CatalogService
	clients  *ClientService
	requests *ServiceRequestService
	staff    *StaffService
	auth     *AuthService
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{PublicURL: "http://portal.test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			ActivationTokenTTLHours: 72,
			BcryptCost:              bcrypt.MinCost,
			MinPasswordLength:       8,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{at: time.Date(2025, 2, 12, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clock.Now)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	cfg := testConfig()

	f := &fixture{
		clock: clock,
		store: store,
		catalog: NewCatalogService(CatalogDependencies{
			ZoneRepo:      store.Zones,
			BusinessRepo:  store.Businesses,
			ActivityRepo:  store.Activities,
			StaffUserRepo: store.StaffUsers,
		}),
		clients: NewClientService(ClientDependencies{
			ClientRepo:    store.Clients,
			ZoneRepo:      store.Zones,
			ActivityRepo:  store.Activities,
			StaffUserRepo: store.StaffUsers,
			Dispatcher:    dispatcher,
		}),
		requests: NewServiceRequestService(store.Services, store.StaffUsers, dispatcher),
		staff: NewStaffService(cfg, StaffDependencies{
			ApplicationRepo: store.Applications,
			StaffUserRepo:   store.StaffUsers,
			TokenRepo:       store.Tokens,
			ZoneRepo:        store.Zones,
			ActivityRepo:    store.Activities,
			Dispatcher:      dispatcher,
		}),
		auth: NewAuthService(cfg, AuthDependencies{
			StaffUserRepo: store.StaffUsers,
			TokenRepo:     store.Tokens,
			Sessions:      store.Sessions,
			ZoneRepo:      store.Zones,
			ActivityRepo:  store.Activities,
		}),
	}
	f.clients.now = clock.Now
	f.staff.now = clock.Now
	f.auth.now = clock.Now
	return f
}

func (f *fixture) seedStaff(t *testing.T, id, email, password string, active bool) *domain.StaffUser {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
	}
	user := &domain.StaffUser{
		ID:           id,
		Nombre:       "Staff " + id,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.StaffRolePhotographer,
		IsActive:     active,
	}
	require.NoError(t, f.store.StaffUsers.Create(context.Background(), user))
	return user
}

func (f *fixture) seedZone(t *testing.T, id, name string, active bool) {
	t.Helper()
	require.NoError(t, f.store.Zones.Create(context.Background(), &domain.Zone{ID: id, Nombre: name, Activa: active}))
}

func (f *fixture) seedAmbulant(t *testing.T, id, phone, zoneID string) *domain.ClientRecord {
	t.Helper()
	rec := &domain.ClientRecord{
		ID:       id,
		Kind:     domain.ClientKindAmbulant,
		Nombre:   "Cliente " + id,
		Telefono: phone,
		Zone:     &domain.ZoneRef{ZoneID: zoneID, ZoneName: "Zona"},
		Status:   domain.ClientStatusWaiting,
	}
	require.NoError(t, f.store.Clients.Create(context.Background(), rec))
	f.clock.Advance(time.Second)
	return rec
}
