package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func fiveURLs() []string {
	urls := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		urls = append(urls, fmt.Sprintf("https://cdn.test/L02/%d.jpg", i))
	}
	return urls
}

func TestDeliverPhotos_WaitingClientBecomesDelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedZone(t, "Z1", "Viejo San Juan", true)
	f.seedStaff(t, "S1", "s1@fotos.test", "", true)
	f.seedAmbulant(t, "L02", "7875550123", "Z1")

	rec, err := f.clients.DeliverPhotos(ctx, DeliverInput{
		Kind:     domain.ClientKindAmbulant,
		ID:       "L02",
		Photos:   fiveURLs(),
		StaffRef: "S1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusDelivered, rec.Status)
	assert.Len(t, rec.FotosSubidas, 5)
	require.NotNil(t, rec.FotografoAsignado)
	assert.Equal(t, "S1", *rec.FotografoAsignado)

	stored, err := f.store.Clients.GetByID(ctx, domain.ClientKindAmbulant, "L02")
	require.NoError(t, err)
	assert.True(t, stored.ConsistentDelivery())
	assert.Equal(t, rec.FotosSubidas, stored.FotosSubidas)

	_, err = f.clients.DeliverPhotos(ctx, DeliverInput{
		Kind: domain.ClientKindAmbulant, ID: "L02", Photos: []string{"https://cdn.test/other.jpg"}, StaffRef: "S1",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	stored, err = f.store.Clients.GetByID(ctx, domain.ClientKindAmbulant, "L02")
	require.NoError(t, err)
	assert.Len(t, stored.FotosSubidas, 5)
}

func TestDeliverPhotos_ResolvesStaffByEmail(t *testing.T) {
	f := newFixture(t)
	f.seedStaff(t, "S1", "s1@fotos.test", "", true)
	f.seedAmbulant(t, "L02", "7875550123", "Z1")

	rec, err := f.clients.DeliverPhotos(context.Background(), DeliverInput{
		Kind: domain.ClientKindAmbulant, ID: "L02", Photos: []string{"u1"}, StaffRef: "S1@fotos.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", *rec.FotografoAsignado)
}

func TestDeliverPhotos_RejectsBadInputWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "S1", "s1@fotos.test", "", true)
	f.seedStaff(t, "S2", "s2@fotos.test", "", false)
	f.seedAmbulant(t, "L02", "7875550123", "Z1")

	tests := []struct {
		name  string
		input DeliverInput
		code  string
	}{
		{name: "no photos", input: DeliverInput{ID: "L02", StaffRef: "S1"}, code: apperrors.CodeValidation},
		{name: "no staff", input: DeliverInput{ID: "L02", Photos: []string{"u1"}}, code: apperrors.CodeValidation},
		{name: "unknown staff", input: DeliverInput{ID: "L02", Photos: []string{"u1"}, StaffRef: "S9"}, code: apperrors.CodeValidation},
		{name: "inactive staff", input: DeliverInput{ID: "L02", Photos: []string{"u1"}, StaffRef: "S2"}, code: apperrors.CodeForbidden},
		{name: "unknown record", input: DeliverInput{ID: "L99", Photos: []string{"u1"}, StaffRef: "S1"}, code: apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Kind = domain.ClientKindAmbulant
			_, err := f.clients.DeliverPhotos(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
		})
	}

	stored, err := f.store.Clients.GetByID(ctx, domain.ClientKindAmbulant, "L02")
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusWaiting, stored.Status)
}

func TestLookup_NormalizesPhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAmbulant(t, "L01", "3234764379", "Z1")
	f.seedAmbulant(t, "L02", "7875551234", "Z1")

	for _, phone := range []string{"787-555-1234", "7875551234", "+1 (787) 555-1234"} {
		rec, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: phone})
		require.NoError(t, err, phone)
		assert.Equal(t, "L02", rec.ID, phone)
	}

	_, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "0000000000"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "123"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestLookup_LocalNumberDoesNotMatchOtherAreaCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAmbulant(t, "L20", "9395551234", "Z1")
	f.seedAmbulant(t, "L21", "7875551234", "Z1")

	_, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "555-1234"})
	assert.True(t, apperrors.IsNotFoundOf(err, apperrors.ResourceClient))

	rec, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "787-555-1234"})
	require.NoError(t, err)
	assert.Equal(t, "L21", rec.ID)
}

func TestLookup_IsRepeatableAndEarliestWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAmbulant(t, "L10", "7875550123", "Z1")
	f.seedAmbulant(t, "L11", "17875550123", "Z1")

	first, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "7875550123"})
	require.NoError(t, err)
	second, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindAmbulant, Phone: "7875550123"})
	require.NoError(t, err)

	assert.Equal(t, "L10", first.ID)
	assert.Equal(t, first, second)
}

func TestLookup_ActivityScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindActivity, Phone: "7875550123", BusinessID: "B1"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, apperrors.ReasonMissingSelection, de.Details["reason"])

	for _, rec := range []*domain.ClientRecord{
		{ID: "AC1", Activity: &domain.ActivityRef{BusinessID: "B1", ActivityID: "A1"}},
		{ID: "AC2", Activity: &domain.ActivityRef{BusinessID: "B1", ActivityID: "A2"}},
	} {
		rec.Kind = domain.ClientKindActivity
		rec.Telefono = "7875550123"
		rec.Status = domain.ClientStatusWaiting
		require.NoError(t, f.store.Clients.Create(ctx, rec))
	}

	got, err := f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindActivity, Phone: "7875550123", BusinessID: "B1", ActivityID: "A2"})
	require.NoError(t, err)
	assert.Equal(t, "AC2", got.ID)

	_, err = f.clients.Lookup(ctx, LookupQuery{Kind: domain.ClientKindActivity, Phone: "7875550123", BusinessID: "B2", ActivityID: "A2"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRegister_DenormalizesAssociation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedZone(t, "Z1", "Condado", true)
	f.seedZone(t, "Z2", "Cerrada", false)

	rec, err := f.clients.Register(ctx, RegisterClientInput{
		Kind: domain.ClientKindAmbulant, Nombre: " Carla Rivera ", Telefono: "323-476-4379", ZoneID: "Z1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.ID, domain.PrefixAmbulantClient))
	assert.Equal(t, "Carla Rivera", rec.Nombre)
	assert.Equal(t, domain.ClientStatusWaiting, rec.Status)
	assert.Equal(t, "Condado", rec.Zone.ZoneName)
	assert.True(t, rec.ConsistentDelivery())

	_, err = f.clients.Register(ctx, RegisterClientInput{Kind: domain.ClientKindAmbulant, Nombre: "X", Telefono: "7875550123", ZoneID: "Z2"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = f.clients.Register(ctx, RegisterClientInput{Kind: domain.ClientKindAmbulant, Nombre: "X", Telefono: "7875550123", ZoneID: "Z9"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRegister_ActivityClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	business, err := f.catalog.CreateBusiness(ctx, BusinessInput{Nombre: "Hotel Caribe"})
	require.NoError(t, err)
	activity, err := f.catalog.CreateActivity(ctx, ActivityInput{NegocioID: business.ID, Nombre: "Boda Ortiz"})
	require.NoError(t, err)

	rec, err := f.clients.Register(ctx, RegisterClientInput{
		Kind: domain.ClientKindActivity, Nombre: "Ana", Telefono: "7875550000",
		BusinessID: business.ID, ActivityID: activity.ID,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.ID, domain.PrefixActivityClient))
	assert.Equal(t, "Hotel Caribe", rec.Activity.BusinessName)
	assert.Equal(t, "Boda Ortiz", rec.Activity.ActivityName)

	_, err = f.clients.Register(ctx, RegisterClientInput{
		Kind: domain.ClientKindActivity, Nombre: "Ana", Telefono: "7875550000",
		BusinessID: "B-other", ActivityID: activity.ID,
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestListForStaff_UsesAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "S1", "s1@fotos.test", "", true)
	f.seedZone(t, "Z1", "Condado", true)
	f.seedZone(t, "Z2", "Isla Verde", true)
	f.seedAmbulant(t, "L01", "7875550001", "Z1")
	f.seedAmbulant(t, "L02", "7875550002", "Z2")
	f.seedAmbulant(t, "L03", "7875550003", "Z1")

	none, err := f.clients.ListForStaff(ctx, domain.ClientKindAmbulant, "S1")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.catalog.AssignZoneStaff(ctx, "Z1", []string{"S1", "S1"})
	require.NoError(t, err)

	got, err := f.clients.ListForStaff(ctx, domain.ClientKindAmbulant, "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L01", "L03"}, recordIDs(got))

	_, err = f.catalog.AssignZoneStaff(ctx, "Z1", []string{"S404"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func recordIDs(records []domain.ClientRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
