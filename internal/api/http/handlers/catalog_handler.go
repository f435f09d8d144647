package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/repository"
	"github.com/fotosexpress/portal/internal/service"
)

// CatalogHandler exposes zones, businesses and activities.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListZones handles GET /zones.
func (h *CatalogHandler) ListZones(c *fiber.Ctx) error {
	return h.listZones(c, false)
}

// ListActiveZones handles GET /zones/active.
func (h *CatalogHandler) ListActiveZones(c *fiber.Ctx) error {
	return h.listZones(c, true)
}

func (h *CatalogHandler) listZones(c *fiber.Ctx, onlyActive bool) error {
	zones, err := h.catalog.ListZones(c.UserContext(), onlyActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(zones, zoneResponse)})
}

// CreateZone handles POST /zones.
func (h *CatalogHandler) CreateZone(c *fiber.Ctx) error {
	var req dto.ZoneCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	zone, err := h.catalog.CreateZone(c.UserContext(), service.ZoneInput{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activa:      req.Activa,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": zoneResponse(*zone)})
}

// DeleteZone handles DELETE /zones/:id.
func (h *CatalogHandler) DeleteZone(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteZone(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignZoneStaff handles PUT /zones/:id/staff.
func (h *CatalogHandler) AssignZoneStaff(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignStaffRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	zone, err := h.catalog.AssignZoneStaff(c.UserContext(), id, req.StaffIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": zoneResponse(*zone)})
}

// ListBusinesses handles GET /businesses.
func (h *CatalogHandler) ListBusinesses(c *fiber.Ctx) error {
	return h.listBusinesses(c, false)
}

// ListActiveBusinesses handles GET /businesses/active.
func (h *CatalogHandler) ListActiveBusinesses(c *fiber.Ctx) error {
	return h.listBusinesses(c, true)
}

func (h *CatalogHandler) listBusinesses(c *fiber.Ctx, onlyActive bool) error {
	businesses, err := h.catalog.ListBusinesses(c.UserContext(), onlyActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(businesses, businessResponse)})
}

// CreateBusiness handles POST /businesses.
func (h *CatalogHandler) CreateBusiness(c *fiber.Ctx) error {
	var req dto.BusinessCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	business, err := h.catalog.CreateBusiness(c.UserContext(), service.BusinessInput{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Activo:    req.Activo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": businessResponse(*business)})
}

// DeleteBusiness handles DELETE /businesses/:id.
func (h *CatalogHandler) DeleteBusiness(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteBusiness(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivities handles GET /activities.
func (h *CatalogHandler) ListActivities(c *fiber.Ctx) error {
	return h.listActivities(c, repository.ActivityFilter{})
}

// ListActiveActivities handles GET /activities/active.
func (h *CatalogHandler) ListActiveActivities(c *fiber.Ctx) error {
	return h.listActivities(c, repository.ActivityFilter{OnlyActive: true})
}

// ListActivitiesByBusiness handles GET /activities/business/:businessId.
func (h *CatalogHandler) ListActivitiesByBusiness(c *fiber.Ctx) error {
	businessID, err := requireParam(c, "businessId")
	if err != nil {
		return err
	}
	return h.listActivities(c, repository.ActivityFilter{BusinessID: &businessID, OnlyActive: c.QueryBool("active")})
}

func (h *CatalogHandler) listActivities(c *fiber.Ctx, filter repository.ActivityFilter) error {
	activities, err := h.catalog.ListActivities(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(activities, activityResponse)})
}

// CreateActivity handles POST /activities.
func (h *CatalogHandler) CreateActivity(c *fiber.Ctx) error {
	var req dto.ActivityCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	activity, err := h.catalog.CreateActivity(c.UserContext(), service.ActivityInput{
		NegocioID:   req.NegocioID,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Fecha:       req.Fecha,
		Activa:      req.Activa,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": activityResponse(*activity)})
}

// DeleteActivity handles DELETE /activities/:id.
func (h *CatalogHandler) DeleteActivity(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteActivity(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignActivityStaff handles PUT /activities/:id/staff.
func (h *CatalogHandler) AssignActivityStaff(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignStaffRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	activity, err := h.catalog.AssignActivityStaff(c.UserContext(), id, req.StaffIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": activityResponse(*activity)})
}
