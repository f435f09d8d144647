package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// CatalogService manages zones, businesses and activities plus the staff
// assigned to them.
type CatalogService struct {
	zones      repository.ZoneRepository
	businesses repository.BusinessRepository
	activities repository.ActivityRepository
	staff      repository.StaffUserRepository
}

// CatalogDependencies bundles repositories for the catalog.
type CatalogDependencies struct {
	ZoneRepo      repository.ZoneRepository
	BusinessRepo  repository.BusinessRepository
	ActivityRepo  repository.ActivityRepository
	StaffUserRepo repository.StaffUserRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		zones:      deps.ZoneRepo,
		businesses: deps.BusinessRepo,
		activities: deps.ActivityRepo,
		staff:      deps.StaffUserRepo,
	}
}

// ZoneInput describes a new zone.
type ZoneInput struct {
	Nombre      string
	Descripcion string
	Activa      *bool
}

// BusinessInput describes a new business.
type BusinessInput struct {
	Nombre    string
	Direccion string
	Telefono  string
	Activo    *bool
}

// ActivityInput describes a new activity.
type ActivityInput struct {
	NegocioID   string
	Nombre      string
	Descripcion string
	Fecha       string
	Activa      *bool
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *CatalogService) CreateZone(ctx context.Context, input ZoneInput) (*domain.Zone, error) {
	name := strings.TrimSpace(input.Nombre)
	if name == "" {
		return nil, apperrors.NewValidationError("zone name required", map[string]any{"field": "nombre"})
	}
	zone := &domain.Zone{
		ID:          domain.NewID(domain.PrefixZone),
		Nombre:      name,
		Descripcion: strings.TrimSpace(input.Descripcion),
		Activa:      boolOr(input.Activa, true),
	}
	if err := s.zones.Create(ctx, zone); err != nil {
		return nil, mapRepoError(err, "zone", nil)
	}
	return zone, nil
}

func (s *CatalogService) ListZones(ctx context.Context, onlyActive bool) ([]domain.Zone, error) {
	zones, err := s.zones.List(ctx, onlyActive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return zones, nil
}

func (s *CatalogService) DeleteZone(ctx context.Context, id string) error {
	return mapRepoError(s.zones.Delete(ctx, id), "zone", map[string]any{"zone_id": id})
}

// AssignZoneStaff replaces the photographers assigned to a zone.
func (s *CatalogService) AssignZoneStaff(ctx context.Context, id string, staffIDs []string) (*domain.Zone, error) {
	ids, err := s.checkStaff(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	if err := s.zones.ReplaceStaff(ctx, id, ids); err != nil {
		return nil, mapRepoError(err, "zone", map[string]any{"zone_id": id})
	}
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "zone", map[string]any{"zone_id": id})
	}
	return zone, nil
}

func (s *CatalogService) CreateBusiness(ctx context.Context, input BusinessInput) (*domain.Business, error) {
	name := strings.TrimSpace(input.Nombre)
	if name == "" {
		return nil, apperrors.NewValidationError("business name required", map[string]any{"field": "nombre"})
	}
	business := &domain.Business{
		ID:        domain.NewID(domain.PrefixBusiness),
		Nombre:    name,
		Direccion: strings.TrimSpace(input.Direccion),
		Telefono:  strings.TrimSpace(input.Telefono),
		Activo:    boolOr(input.Activo, true),
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, mapRepoError(err, "business", nil)
	}
	return business, nil
}

func (s *CatalogService) ListBusinesses(ctx context.Context, onlyActive bool) ([]domain.Business, error) {
	businesses, err := s.businesses.List(ctx, onlyActive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return businesses, nil
}

func (s *CatalogService) DeleteBusiness(ctx context.Context, id string) error {
	return mapRepoError(s.businesses.Delete(ctx, id), "business", map[string]any{"business_id": id})
}

// CreateActivity adds an activity under an existing business, copying its name.
func (s *CatalogService) CreateActivity(ctx context.Context, input ActivityInput) (*domain.Activity, error) {
	name := strings.TrimSpace(input.Nombre)
	if name == "" {
		return nil, apperrors.NewValidationError("activity name required", map[string]any{"field": "nombre"})
	}
	business, err := s.businesses.GetByID(ctx, input.NegocioID)
	if err != nil {
		return nil, mapRepoError(err, "business", map[string]any{"business_id": input.NegocioID})
	}
	activity := &domain.Activity{
		ID:            domain.NewID(domain.PrefixActivity),
		NegocioID:     business.ID,
		NegocioNombre: business.Nombre,
		Nombre:        name,
		Descripcion:   strings.TrimSpace(input.Descripcion),
		Fecha:         strings.TrimSpace(input.Fecha),
		Activa:        boolOr(input.Activa, true),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, mapRepoError(err, "activity", nil)
	}
	return activity, nil
}

func (s *CatalogService) ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	activities, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return activities, nil
}

func (s *CatalogService) DeleteActivity(ctx context.Context, id string) error {
	return mapRepoError(s.activities.Delete(ctx, id), "activity", map[string]any{"activity_id": id})
}

// AssignActivityStaff replaces the photographers assigned to an activity.
func (s *CatalogService) AssignActivityStaff(ctx context.Context, id string, staffIDs []string) (*domain.Activity, error) {
	ids, err := s.checkStaff(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	if err := s.activities.ReplaceStaff(ctx, id, ids); err != nil {
		return nil, mapRepoError(err, "activity", map[string]any{"activity_id": id})
	}
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "activity", map[string]any{"activity_id": id})
	}
	return activity, nil
}

// checkStaff dedupes ids and verifies each one names a staff user.
func (s *CatalogService) checkStaff(ctx context.Context, staffIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(staffIDs))
	out := make([]string, 0, len(staffIDs))
	for _, id := range staffIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, err := s.staff.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewValidationError("unknown staff id", map[string]any{"staffId": id})
			}
			return nil, apperrors.MapError(err)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
