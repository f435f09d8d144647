package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/service"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// StaffHandler exposes staff applications, accounts and auth endpoints.
type StaffHandler struct {
	authService  *service.AuthService
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{authService: authService, staffService: staffService}
}

// Apply handles POST /staff.
func (h *StaffHandler) Apply(c *fiber.Ctx) error {
	var req dto.StaffApplicationCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	app, err := h.staffService.CreateApplication(c.UserContext(), service.ApplicationInput{
		Nombre:          req.Nombre,
		Email:           req.Email,
		Telefono:        req.Telefono,
		Experiencia:     req.Experiencia,
		Equipo:          req.Equipo,
		Especialidades:  req.Especialidades,
		FotosReferencia: req.FotosReferencia,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": applicationResponse(*app)})
}

// ListApplications handles GET /staff.
func (h *StaffHandler) ListApplications(c *fiber.Ctx) error {
	apps, err := h.staffService.ListApplications(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(apps, applicationResponse)})
}

// DeleteApplication handles DELETE /staff/:id.
func (h *StaffHandler) DeleteApplication(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.staffService.DeleteApplication(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve handles POST /staff/approve/:id.
func (h *StaffHandler) Approve(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	result, err := h.staffService.Approve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApprovalResponse{
		ID:             result.ApplicationID,
		StaffID:        result.StaffID,
		Nombre:         result.Nombre,
		Email:          result.Email,
		ActivationLink: result.ActivationLink,
		ExpiresAt:      result.ExpiresAt,
	}})
}

// Reject handles POST /staff/reject/:id.
func (h *StaffHandler) Reject(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	app, err := h.staffService.Reject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(*app)})
}

// ValidateToken handles GET /staff/validate-token?token=.
func (h *StaffHandler) ValidateToken(c *fiber.Ctx) error {
	token, err := h.authService.ValidateActivationToken(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TokenIdentityResponse{Email: token.Email, Nombre: token.Nombre}})
}

// Activate handles POST /staff/activate.
func (h *StaffHandler) Activate(c *fiber.Ctx) error {
	var req dto.ActivateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	staff, err := h.authService.Activate(c.UserContext(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(*staff)})
}

// ChangePassword handles POST /staff/change-password.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.PasswordChangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// Login handles POST /staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.authService.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Staff: staffResponse(*result.Staff),
		Auth:  dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}})
}

// Logout handles POST /staff/logout.
func (h *StaffHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.authService.Logout(c.UserContext(), principal.SessionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /staff/users.
func (h *StaffHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.staffService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(users, staffResponse)})
}

// GetUserByEmail handles GET /staff/user/:email.
func (h *StaffHandler) GetUserByEmail(c *fiber.Ctx) error {
	email, err := requireParam(c, "email")
	if err != nil {
		return err
	}
	user, err := h.staffService.GetUserByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(*user)})
}

// DeleteUser handles DELETE /staff/users/:id.
func (h *StaffHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.staffService.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
