package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/service"
)

// ServicesHandler exposes photography service requests.
type ServicesHandler struct {
	requests *service.ServiceRequestService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(requests *service.ServiceRequestService) *ServicesHandler {
	return &ServicesHandler{requests: requests}
}

// Create handles POST /services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	var req dto.ServiceRequestCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.requests.Create(c.UserContext(), domain.ServiceType(req.Tipo),
		domain.ServiceDetails{
			Locacion:    req.Detalles.Locacion,
			Descripcion: req.Detalles.Descripcion,
			FechaEvento: req.Detalles.FechaEvento,
			Horas:       req.Detalles.Horas,
			Personas:    req.Detalles.Personas,
		},
		domain.ServiceContact{
			Nombre:   req.Contacto.Nombre,
			Telefono: req.Contacto.Telefono,
			Email:    req.Contacto.Email,
		})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": serviceRequestResponse(*created)})
}

// List handles GET /services.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	requests, err := h.requests.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(requests, serviceRequestResponse)})
}

// Quote handles PUT /services/:id/quote.
func (h *ServicesHandler) Quote(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.QuoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.requests.Quote(c.UserContext(), id, req.CotizacionEstimada)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceRequestResponse(*updated)})
}

// Assign handles PUT /services/:id/assign.
func (h *ServicesHandler) Assign(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.requests.Assign(c.UserContext(), id, req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceRequestResponse(*updated)})
}

// Delete handles DELETE /services/:id.
func (h *ServicesHandler) Delete(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.requests.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
