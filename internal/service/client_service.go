package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// ClientService coordinates client registration, lookup and photo delivery.
type ClientService struct {
	clients    repository.ClientRepository
	zones      repository.ZoneRepository
	activities repository.ActivityRepository
	staff      repository.StaffUserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ClientDependencies bundles repositories for client workflows.
type ClientDependencies struct {
	ClientRepo    repository.ClientRepository
	ZoneRepo      repository.ZoneRepository
	ActivityRepo  repository.ActivityRepository
	StaffUserRepo repository.StaffUserRepository
	Dispatcher    events.Dispatcher
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:    deps.ClientRepo,
		zones:      deps.ZoneRepo,
		activities: deps.ActivityRepo,
		staff:      deps.StaffUserRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// RegisterClientInput is a client signing up to receive photos.
type RegisterClientInput struct {
	Kind             domain.ClientKind
	Nombre           string
	Telefono         string
	Instagram        string
	AceptaPublicidad bool
	FotoReferencia   string
	ZoneID           string
	BusinessID       string
	ActivityID       string
}

// LookupQuery identifies the record a client is looking for.
type LookupQuery struct {
	Kind       domain.ClientKind
	Phone      string
	BusinessID string
	ActivityID string
}

// DeliverInput attaches photos to a client record. StaffRef is a staff id or email.
type DeliverInput struct {
	Kind     domain.ClientKind
	ID       string
	Photos   []string
	StaffRef string
}

// Register creates a client record waiting for photos.
func (s *ClientService) Register(ctx context.Context, input RegisterClientInput) (*domain.ClientRecord, error) {
	name := strings.TrimSpace(input.Nombre)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{"field": "nombre"})
	}
	if len(domain.NormalizePhone(input.Telefono)) < domain.MinPhoneDigits {
		return nil, apperrors.NewValidationError("phone number too short", map[string]any{"field": "telefono"})
	}

	rec := &domain.ClientRecord{
		Kind:             input.Kind,
		Nombre:           name,
		Telefono:         strings.TrimSpace(input.Telefono),
		Instagram:        strings.TrimSpace(input.Instagram),
		AceptaPublicidad: input.AceptaPublicidad,
		FotoReferencia:   strings.TrimSpace(input.FotoReferencia),
		Status:           domain.ClientStatusWaiting,
	}

	switch input.Kind {
	case domain.ClientKindAmbulant:
		zone, err := s.zones.GetByID(ctx, input.ZoneID)
		if err != nil {
			return nil, mapRepoError(err, "zone", map[string]any{"zone_id": input.ZoneID})
		}
		if !zone.Activa {
			return nil, apperrors.NewValidationError("zone inactive", map[string]any{"zone_id": zone.ID})
		}
		rec.ID = domain.NewID(domain.PrefixAmbulantClient)
		rec.Zone = &domain.ZoneRef{ZoneID: zone.ID, ZoneName: zone.Nombre}
	case domain.ClientKindActivity:
		activity, err := s.activities.GetByID(ctx, input.ActivityID)
		if err != nil {
			return nil, mapRepoError(err, "activity", map[string]any{"activity_id": input.ActivityID})
		}
		if activity.NegocioID != input.BusinessID {
			return nil, apperrors.NewValidationError("activity does not belong to business", map[string]any{
				"activity_id": activity.ID,
				"business_id": input.BusinessID,
			})
		}
		if !activity.Activa {
			return nil, apperrors.NewValidationError("activity inactive", map[string]any{"activity_id": activity.ID})
		}
		rec.ID = domain.NewID(domain.PrefixActivityClient)
		rec.Activity = &domain.ActivityRef{
			BusinessID:   activity.NegocioID,
			BusinessName: activity.NegocioNombre,
			ActivityID:   activity.ID,
			ActivityName: activity.Nombre,
		}
	default:
		return nil, apperrors.NewValidationError("unknown client kind", map[string]any{"kind": input.Kind})
	}

	if err := s.clients.Create(ctx, rec); err != nil {
		return nil, mapRepoError(err, "client", nil)
	}
	return rec, nil
}

// List returns every record of kind in creation order.
func (s *ClientService) List(ctx context.Context, kind domain.ClientKind) ([]domain.ClientRecord, error) {
	return s.list(ctx, repository.ClientFilter{Kind: kind})
}

func (s *ClientService) ListByZone(ctx context.Context, zoneID string) ([]domain.ClientRecord, error) {
	return s.list(ctx, repository.ClientFilter{Kind: domain.ClientKindAmbulant, ZoneIDs: []string{zoneID}})
}

func (s *ClientService) ListByActivity(ctx context.Context, activityID string) ([]domain.ClientRecord, error) {
	return s.list(ctx, repository.ClientFilter{Kind: domain.ClientKindActivity, ActivityIDs: []string{activityID}})
}

// ListForStaff returns the records in the zones or activities assigned to staffID.
func (s *ClientService) ListForStaff(ctx context.Context, kind domain.ClientKind, staffID string) ([]domain.ClientRecord, error) {
	filter := repository.ClientFilter{Kind: kind}
	switch kind {
	case domain.ClientKindAmbulant:
		zones, err := s.zones.ListByStaff(ctx, staffID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		filter.ZoneIDs = make([]string, 0, len(zones))
		for _, z := range zones {
			filter.ZoneIDs = append(filter.ZoneIDs, z.ID)
		}
	case domain.ClientKindActivity:
		activities, err := s.activities.List(ctx, repository.ActivityFilter{StaffID: &staffID})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		filter.ActivityIDs = make([]string, 0, len(activities))
		for _, a := range activities {
			filter.ActivityIDs = append(filter.ActivityIDs, a.ID)
		}
	default:
		return nil, apperrors.NewValidationError("unknown client kind", map[string]any{"kind": kind})
	}
	return s.list(ctx, filter)
}

func (s *ClientService) list(ctx context.Context, filter repository.ClientFilter) ([]domain.ClientRecord, error) {
	records, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if records == nil {
		records = []domain.ClientRecord{}
	}
	return records, nil
}

// Lookup finds the record for a phone number. Activity lookups must name
// both business and activity. With several matches the earliest record wins.
func (s *ClientService) Lookup(ctx context.Context, q LookupQuery) (*domain.ClientRecord, error) {
	if q.Kind == domain.ClientKindActivity &&
		(strings.TrimSpace(q.BusinessID) == "" || strings.TrimSpace(q.ActivityID) == "") {
		return nil, apperrors.NewMissingSelection()
	}
	digits := domain.NormalizePhone(q.Phone)
	if len(digits) < domain.MinPhoneDigits {
		return nil, apperrors.NewValidationError("phone number too short", map[string]any{"field": "telefono"})
	}

	filter := repository.ClientFilter{Kind: q.Kind, PhoneSuffix: domain.PhoneSuffix(digits)}
	if q.Kind == domain.ClientKindActivity {
		filter.BusinessID = &q.BusinessID
		filter.ActivityIDs = []string{q.ActivityID}
	}
	candidates, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, rec := range candidates {
		if domain.PhonesMatch(rec.Telefono, digits) {
			out := rec
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound(apperrors.ResourceClient, map[string]any{"telefono": digits})
}

// DeliverPhotos attaches photos to a waiting record. A record delivered in
// the meantime fails with an invalid transition and is left untouched.
func (s *ClientService) DeliverPhotos(ctx context.Context, input DeliverInput) (*domain.ClientRecord, error) {
	staffRef := strings.TrimSpace(input.StaffRef)
	if staffRef == "" {
		return nil, apperrors.NewValidationError("staff identity required", map[string]any{"field": "staffId"})
	}

	rec, err := s.clients.GetByID(ctx, input.Kind, input.ID)
	if err != nil {
		return nil, mapRepoError(err, "client", map[string]any{"client_id": input.ID})
	}
	staff, err := s.resolveStaff(ctx, staffRef)
	if err != nil {
		return nil, err
	}

	delivered, err := domain.Deliver(*rec, domain.DeliverPhotos{
		PhotoURLs:   input.Photos,
		DeliveredBy: staff.ID,
		At:          s.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.clients.MarkDelivered(ctx, &delivered); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewInvalidTransition("client", string(domain.ClientStatusDelivered), "deliver photos")
		}
		return nil, mapRepoError(err, "client", map[string]any{"client_id": input.ID})
	}

	s.publishEvent(ctx, events.NewEvent(events.EventPhotosDelivered, delivered.ID, &staff.ID, delivered.UpdatedAt,
		events.PhotosDeliveredPayload{
			Nombre:     delivered.Nombre,
			Telefono:   delivered.Telefono,
			PhotoCount: len(delivered.FotosSubidas),
		}))
	return &delivered, nil
}

func (s *ClientService) Delete(ctx context.Context, kind domain.ClientKind, id string) error {
	return mapRepoError(s.clients.Delete(ctx, kind, id), "client", map[string]any{"client_id": id})
}

// resolveStaff accepts either a staff id or an email address.
func (s *ClientService) resolveStaff(ctx context.Context, ref string) (*domain.StaffUser, error) {
	var (
		staff *domain.StaffUser
		err   error
	)
	if strings.Contains(ref, "@") {
		staff, err = s.staff.GetByEmail(ctx, ref)
	} else {
		staff, err = s.staff.GetByID(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown staff member", map[string]any{"staffId": ref})
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.IsActive {
		return nil, apperrors.NewForbidden("staff account not active")
	}
	return staff, nil
}

func (s *ClientService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
