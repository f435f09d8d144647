package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

type countingFinder struct {
	mu    sync.Mutex
	calls int
}

func (f *countingFinder) FindClientByPhone(context.Context, Scope, string) (*domain.ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, apperrors.NewNotFound("client", nil)
}

func TestLookup_PendingThenReady(t *testing.T) {
	api := startAPI(t)
	api.seedAmbulant(t, "L02", "7875550123")

	var seen []LookupState
	var mu sync.Mutex
	flow := NewLookupFlow(api.client, func(s LookupState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	result, err := flow.Lookup(context.Background(), "787-555-0123", AmbulantScope())
	require.NoError(t, err)
	assert.Equal(t, LookupPending, result.State)
	require.NotNil(t, result.Record)
	assert.Equal(t, "L02", result.Record.ID)
	assert.Equal(t, []LookupState{LookupSearching, LookupPending}, seen)

	again, err := flow.Lookup(context.Background(), "7875550123", AmbulantScope())
	require.NoError(t, err)
	assert.Equal(t, result, again)

	api.loginAs(t, staffEmail, staffPassword)
	_, err = api.client.DeliverPhotos(context.Background(), domain.ClientKindAmbulant, "L02", []string{"u1", "u2"}, "S1")
	require.NoError(t, err)

	ready, err := flow.Lookup(context.Background(), "+1 (787) 555-0123", AmbulantScope())
	require.NoError(t, err)
	assert.Equal(t, LookupReady, ready.State)
	assert.Equal(t, []string{"u1", "u2"}, ready.Photos)
}

func TestLookup_UnknownPhoneIsNotRegisteredNotAnError(t *testing.T) {
	api := startAPI(t)
	api.seedAmbulant(t, "L02", "7875550123")
	flow := NewLookupFlow(api.client, nil)

	result, err := flow.Lookup(context.Background(), "0000000000", AmbulantScope())
	require.NoError(t, err)
	assert.Equal(t, LookupNotRegistered, result.State)
	assert.Nil(t, result.Record)
	assert.Equal(t, LookupNotRegistered, flow.State())
}

func TestLookup_ValidationNeverReachesBackend(t *testing.T) {
	finder := &countingFinder{}
	flow := NewLookupFlow(finder, nil)

	_, err := flow.Lookup(context.Background(), "7875550123", ActivityScope("B01", ""))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.Equal(t, apperrors.ReasonMissingSelection, apperrors.ToDomainError(err).Details["reason"])

	_, err = flow.Lookup(context.Background(), "55-12", AmbulantScope())
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	assert.Zero(t, finder.calls)
	assert.Equal(t, LookupIdle, flow.State())
}

func TestLookup_ConnectionErrorIsDistinctFromNotFound(t *testing.T) {
	api := startAPI(t)
	api.server.Close()
	flow := NewLookupFlow(api.client, nil)

	result, err := flow.Lookup(context.Background(), "7875550123", AmbulantScope())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConnection))
	assert.Equal(t, LookupIdle, result.State)
	assert.Equal(t, LookupIdle, flow.State())
	assert.NotEqual(t, Describe(err), Describe(apperrors.NewNotFound("client", nil)))
}

func TestLookup_Plain404IsNotNotRegistered(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))
	defer proxy.Close()

	client := NewClient(proxy.URL + "/wrong-prefix")
	defer client.CloseIdleConnections()
	flow := NewLookupFlow(client, nil)

	result, err := flow.Lookup(context.Background(), "7875550123", AmbulantScope())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConnection))
	assert.Equal(t, LookupIdle, result.State)
	assert.Equal(t, LookupIdle, flow.State())
}

func TestLookup_UnknownAPIRouteIsNotNotRegistered(t *testing.T) {
	api := startAPI(t)
	client := NewClient(api.server.URL + "/v2")
	defer client.CloseIdleConnections()

	result, err := NewLookupFlow(client, nil).Lookup(context.Background(), "7875550123", AmbulantScope())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConnection))
	assert.Equal(t, LookupIdle, result.State)
}

func TestLookup_TimeoutSurfacesAsConnectionError(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	client := NewClient(slow.URL, WithTimeout(50*time.Millisecond))
	defer client.CloseIdleConnections()

	_, err := NewLookupFlow(client, nil).Lookup(context.Background(), "7875550123", AmbulantScope())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConnection))
}

func TestLookup_ActivityScope(t *testing.T) {
	api := startAPI(t)
	ctx := context.Background()
	require.NoError(t, api.store.Clients.Create(ctx, &domain.ClientRecord{
		ID:       "AC01",
		Kind:     domain.ClientKindActivity,
		Nombre:   "Luisa",
		Telefono: "7875551234",
		Activity: &domain.ActivityRef{BusinessID: "B01", BusinessName: "Hotel", ActivityID: "A01", ActivityName: "Boda"},
		Status:   domain.ClientStatusWaiting,
	}))
	flow := NewLookupFlow(api.client, nil)

	found, err := flow.Lookup(ctx, "787-555-1234", ActivityScope("B01", "A01"))
	require.NoError(t, err)
	assert.Equal(t, LookupPending, found.State)
	assert.Equal(t, "Boda", found.Record.Activity.ActivityName)

	other, err := flow.Lookup(ctx, "787-555-1234", ActivityScope("B01", "A02"))
	require.NoError(t, err)
	assert.Equal(t, LookupNotRegistered, other.State)
}
