package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// ServiceRequestService handles public quote requests.
type ServiceRequestService struct {
	requests   repository.ServiceRequestRepository
	staff      repository.StaffUserRepository
	dispatcher events.Dispatcher
}

// NewServiceRequestService constructs the service.
func NewServiceRequestService(requests repository.ServiceRequestRepository, staff repository.StaffUserRepository, dispatcher events.Dispatcher) *ServiceRequestService {
	return &ServiceRequestService{requests: requests, staff: staff, dispatcher: dispatcher}
}

var knownServiceTypes = map[domain.ServiceType]struct{}{
	domain.ServiceTypePrivateSession: {},
	domain.ServiceTypeEvent:          {},
	domain.ServiceTypeWedding:        {},
	domain.ServiceTypeSocialEvent:    {},
	domain.ServiceTypeCorporate:      {},
}

// Create stores a new pending request.
func (s *ServiceRequestService) Create(ctx context.Context, tipo domain.ServiceType, details domain.ServiceDetails, contact domain.ServiceContact) (*domain.ServiceRequest, error) {
	if _, ok := knownServiceTypes[tipo]; !ok {
		return nil, apperrors.NewValidationError("unknown service type", map[string]any{"field": "tipo"})
	}
	contact.Nombre = strings.TrimSpace(contact.Nombre)
	if contact.Nombre == "" {
		return nil, apperrors.NewValidationError("contact name required", map[string]any{"field": "contacto.nombre"})
	}
	if len(domain.NormalizePhone(contact.Telefono)) < domain.MinPhoneDigits {
		return nil, apperrors.NewValidationError("contact phone too short", map[string]any{"field": "contacto.telefono"})
	}
	if details.Horas < 0 || details.Personas < 0 {
		return nil, apperrors.NewValidationError("hours and people cannot be negative", nil)
	}

	req := &domain.ServiceRequest{
		ID:       domain.NewID(domain.PrefixService),
		Tipo:     tipo,
		Detalles: details,
		Contacto: contact,
		Status:   domain.ServiceStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, mapRepoError(err, "service request", nil)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventServiceRequestCreated, req.ID, nil, req.CreatedAt,
			events.ServiceRequestCreatedPayload{Tipo: string(tipo), Nombre: contact.Nombre, Telefono: contact.Telefono}))
	}
	return req, nil
}

func (s *ServiceRequestService) List(ctx context.Context) ([]domain.ServiceRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if requests == nil {
		requests = []domain.ServiceRequest{}
	}
	return requests, nil
}

func (s *ServiceRequestService) Delete(ctx context.Context, id string) error {
	return mapRepoError(s.requests.Delete(ctx, id), "service request", map[string]any{"service_id": id})
}

// Quote records an estimate on a pending request.
func (s *ServiceRequestService) Quote(ctx context.Context, id string, amount float64) (*domain.ServiceRequest, error) {
	return s.transition(ctx, id, func(req domain.ServiceRequest) (domain.ServiceRequest, error) {
		return domain.Quote(req, amount)
	})
}

// Assign hands the request to an active photographer.
func (s *ServiceRequestService) Assign(ctx context.Context, id, staffID string) (*domain.ServiceRequest, error) {
	staff, err := s.staff.GetByID(ctx, strings.TrimSpace(staffID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown staff id", map[string]any{"staffId": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	return s.transition(ctx, id, func(req domain.ServiceRequest) (domain.ServiceRequest, error) {
		return domain.AssignPhotographer(req, staff.ID)
	})
}

func (s *ServiceRequestService) transition(ctx context.Context, id string, apply func(domain.ServiceRequest) (domain.ServiceRequest, error)) (*domain.ServiceRequest, error) {
	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "service request", map[string]any{"service_id": id})
	}
	next, err := apply(*current)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, &next, current.Status); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("service request changed concurrently", map[string]any{"service_id": id})
		}
		return nil, mapRepoError(err, "service request", map[string]any{"service_id": id})
	}
	return &next, nil
}
