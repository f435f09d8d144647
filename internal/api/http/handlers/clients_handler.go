package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/service"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// ClientsHandler serves one client kind. Ambulant and activity clients share
// the same routes under different prefixes.
type ClientsHandler struct {
	kind    domain.ClientKind
	clients *service.ClientService
}

// NewClientsHandler constructs a handler bound to kind.
func NewClientsHandler(kind domain.ClientKind, clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{kind: kind, clients: clients}
}

// List handles GET /{kind}-clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	records, err := h.clients.List(c.UserContext(), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(records, clientResponse)})
}

// ListByZone handles GET /ambulant-clients/zone/:zoneId.
func (h *ClientsHandler) ListByZone(c *fiber.Ctx) error {
	zoneID, err := requireParam(c, "zoneId")
	if err != nil {
		return err
	}
	records, err := h.clients.ListByZone(c.UserContext(), zoneID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(records, clientResponse)})
}

// ListByActivity handles GET /activity-clients/activity/:activityId.
func (h *ClientsHandler) ListByActivity(c *fiber.Ctx) error {
	activityID, err := requireParam(c, "activityId")
	if err != nil {
		return err
	}
	records, err := h.clients.ListByActivity(c.UserContext(), activityID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(records, clientResponse)})
}

// ListForStaff handles GET /{kind}-clients/staff/:staffId. Photographers may
// only read their own list.
func (h *ClientsHandler) ListForStaff(c *fiber.Ctx) error {
	staffID, err := requireParam(c, "staffId")
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Staff.Role != domain.StaffRoleAdmin && principal.Staff.ID != staffID {
		return apperrors.NewForbidden("cannot read another photographer's clients")
	}
	records, err := h.clients.ListForStaff(c.UserContext(), h.kind, staffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(records, clientResponse)})
}

// Lookup handles GET /{kind}-clients/phone/:phone. Activity lookups read
// negocioId and actividadId from the query string.
func (h *ClientsHandler) Lookup(c *fiber.Ctx) error {
	rec, err := h.clients.Lookup(c.UserContext(), service.LookupQuery{
		Kind:       h.kind,
		Phone:      c.Params("phone"),
		BusinessID: c.Query("negocioId"),
		ActivityID: c.Query("actividadId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(*rec)})
}

// Register handles POST /{kind}-clients.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	input := service.RegisterClientInput{Kind: h.kind}
	switch h.kind {
	case domain.ClientKindAmbulant:
		var req dto.AmbulantClientCreateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		input.Nombre = req.Nombre
		input.Telefono = req.Telefono
		input.Instagram = req.Instagram
		input.AceptaPublicidad = req.AceptaPublicidad
		input.FotoReferencia = req.FotoReferencia
		input.ZoneID = req.ZonaID
	default:
		var req dto.ActivityClientCreateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		input.Nombre = req.Nombre
		input.Telefono = req.Telefono
		input.Instagram = req.Instagram
		input.AceptaPublicidad = req.AceptaPublicidad
		input.FotoReferencia = req.FotoReferencia
		input.BusinessID = req.NegocioID
		input.ActivityID = req.ActividadID
	}

	rec, err := h.clients.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": clientResponse(*rec)})
}

// DeliverPhotos handles PUT /{kind}-clients/:id/photos. Only administrators
// may deliver on behalf of someone else.
func (h *ClientsHandler) DeliverPhotos(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.DeliverPhotosRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	staffRef := strings.TrimSpace(req.StaffID)
	switch {
	case staffRef == "":
		staffRef = principal.Staff.ID
	case principal.Staff.Role != domain.StaffRoleAdmin &&
		staffRef != principal.Staff.ID && !strings.EqualFold(staffRef, principal.Staff.Email):
		return apperrors.NewForbidden("cannot deliver on behalf of another photographer")
	}

	rec, err := h.clients.DeliverPhotos(c.UserContext(), service.DeliverInput{
		Kind:     h.kind,
		ID:       id,
		Photos:   req.Photos,
		StaffRef: staffRef,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(*rec)})
}

// Delete handles DELETE /{kind}-clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.clients.Delete(c.UserContext(), h.kind, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
