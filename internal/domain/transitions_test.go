package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func waitingClient() ClientRecord {
	return ClientRecord{
		ID:       "L02",
		Kind:     ClientKindAmbulant,
		Nombre:   "Marcos Soto",
		Telefono: "7875550123",
		Zone:     &ZoneRef{ZoneID: "Z01", ZoneName: "Viejo San Juan"},
		Status:   ClientStatusWaiting,
	}
}

func TestDeliver_MovesToDelivered(t *testing.T) {
	rec := waitingClient()
	require.True(t, rec.ConsistentDelivery())

	at := time.Date(2025, 2, 12, 10, 0, 0, 0, time.UTC)
	out, err := Deliver(rec, DeliverPhotos{
		PhotoURLs:   []string{"u1", "u2", "u3", "u4", "u5"},
		DeliveredBy: "S1",
		At:          at,
	})
	require.NoError(t, err)

	assert.Equal(t, ClientStatusDelivered, out.Status)
	assert.Len(t, out.FotosSubidas, 5)
	require.NotNil(t, out.FotografoAsignado)
	assert.Equal(t, "S1", *out.FotografoAsignado)
	assert.Equal(t, at, out.UpdatedAt)
	assert.True(t, out.ConsistentDelivery())

	// input untouched
	assert.Equal(t, ClientStatusWaiting, rec.Status)
	assert.Nil(t, rec.FotosSubidas)
}

func TestDeliver_TwiceFailsWithInvalidTransition(t *testing.T) {
	out, err := Deliver(waitingClient(), DeliverPhotos{PhotoURLs: []string{"u1"}, DeliveredBy: "S1"})
	require.NoError(t, err)

	again, err := Deliver(out, DeliverPhotos{PhotoURLs: []string{"other"}, DeliveredBy: "S2"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
	assert.Equal(t, []string{"u1"}, again.FotosSubidas)
	assert.Equal(t, "S1", *again.FotografoAsignado)
}

func TestDeliver_Validation(t *testing.T) {
	tests := []struct {
		name string
		ev   DeliverPhotos
	}{
		{name: "no photos", ev: DeliverPhotos{DeliveredBy: "S1"}},
		{name: "blank photos", ev: DeliverPhotos{PhotoURLs: []string{" ", ""}, DeliveredBy: "S1"}},
		{name: "no staff", ev: DeliverPhotos{PhotoURLs: []string{"u1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Deliver(waitingClient(), tt.ev)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
			assert.Equal(t, ClientStatusWaiting, out.Status)
		})
	}
}

func TestApplicationTransitions(t *testing.T) {
	app := StaffApplication{ID: "P01", Status: ApplicationStatusPending}

	approved, err := Approve(app)
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusApproved, approved.Status)

	_, err = Reject(approved)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
	_, err = Approve(approved)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	rejected, err := Reject(app)
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusRejected, rejected.Status)
	_, err = Approve(rejected)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
}

func TestServiceRequestTransitions(t *testing.T) {
	req := ServiceRequest{ID: "SR01", Status: ServiceStatusPending}

	quoted, err := Quote(req, 850)
	require.NoError(t, err)
	assert.Equal(t, ServiceStatusQuoted, quoted.Status)
	require.NotNil(t, quoted.CotizacionEstimada)
	assert.Equal(t, 850.0, *quoted.CotizacionEstimada)

	_, err = Quote(quoted, 900)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	assigned, err := AssignPhotographer(quoted, "SU01")
	require.NoError(t, err)
	assert.Equal(t, ServiceStatusAssigned, assigned.Status)

	_, err = AssignPhotographer(assigned, "SU02")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	_, err = Quote(req, 0)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestFilters_PartitionAndKeepOrder(t *testing.T) {
	staff := "S1"
	records := []ClientRecord{
		{ID: "1", Status: ClientStatusWaiting},
		{ID: "2", Status: ClientStatusDelivered, FotosSubidas: []string{"a"}, FotografoAsignado: &staff},
		{ID: "3", Status: ClientStatusWaiting},
		{ID: "4", Status: ClientStatusDelivered, FotosSubidas: []string{"b"}, FotografoAsignado: &staff},
		{ID: "5", Status: ClientStatusWaiting},
	}

	pending := FilterPending(records)
	completed := FilterCompleted(records)

	assert.Equal(t, []string{"1", "3", "5"}, ids(pending))
	assert.Equal(t, []string{"2", "4"}, ids(completed))
	assert.Len(t, records, len(pending)+len(completed))
}

func TestActivationTokenState(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Hour)

	tests := []struct {
		name   string
		token  ActivationToken
		active bool
		want   TokenState
	}{
		{name: "valid", token: ActivationToken{ExpiresAt: now.Add(time.Hour)}, want: TokenStateValid},
		{name: "expired", token: ActivationToken{ExpiresAt: now.Add(-time.Minute)}, want: TokenStateExpired},
		{name: "expires exactly now", token: ActivationToken{ExpiresAt: now}, want: TokenStateExpired},
		{name: "used", token: ActivationToken{ExpiresAt: now.Add(time.Hour), UsedAt: &used}, want: TokenStateUsed},
		{name: "account already active", token: ActivationToken{ExpiresAt: now.Add(time.Hour)}, active: true, want: TokenStateUsed},
		{name: "used and expired", token: ActivationToken{ExpiresAt: now.Add(-time.Minute), UsedAt: &used}, want: TokenStateUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.State(now, tt.active))
		})
	}
}

func ids(records []ClientRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
