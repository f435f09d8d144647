package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func TestServiceRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "S1", "s1@fotos.test", "", true)

	req, err := f.requests.Create(ctx, domain.ServiceTypeWedding,
		domain.ServiceDetails{Locacion: "Dorado", Horas: 6, Personas: 120},
		domain.ServiceContact{Nombre: "Luisa", Telefono: "787-555-0199"})
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceStatusPending, req.Status)

	quoted, err := f.requests.Quote(ctx, req.ID, 1200)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceStatusQuoted, quoted.Status)

	_, err = f.requests.Quote(ctx, req.ID, 1300)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	_, err = f.requests.Assign(ctx, req.ID, "S404")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	assigned, err := f.requests.Assign(ctx, req.ID, "S1")
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceStatusAssigned, assigned.Status)
	assert.Equal(t, 1200.0, *assigned.CotizacionEstimada)

	list, err := f.requests.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ServiceStatusAssigned, list[0].Status)

	require.NoError(t, f.requests.Delete(ctx, req.ID))
	assert.True(t, apperrors.Is(f.requests.Delete(ctx, req.ID), apperrors.CodeNotFound))
}

func TestServiceRequestCreate_Validates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requests.Create(ctx, "fiesta", domain.ServiceDetails{}, domain.ServiceContact{Nombre: "A", Telefono: "7875550199"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	_, err = f.requests.Create(ctx, domain.ServiceTypeEvent, domain.ServiceDetails{}, domain.ServiceContact{Nombre: "A", Telefono: "12"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}
