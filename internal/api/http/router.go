package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fotosexpress/portal/internal/api/http/handlers"
	"github.com/fotosexpress/portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Catalog         *handlers.CatalogHandler
	AmbulantClients *handlers.ClientsHandler
	ActivityClients *handlers.ClientsHandler
	Services        *handlers.ServicesHandler
	Staff           *handlers.StaffHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes under /api.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	staffOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireStaffRole()}
	adminOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin()}
	with := func(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), h)
	}

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)
	api.Get("/health/metrics", cfg.Health.Metrics)

	api.Get("/zones", cfg.Catalog.ListZones)
	api.Get("/zones/active", cfg.Catalog.ListActiveZones)
	api.Post("/zones", with(adminOnly, cfg.Catalog.CreateZone)...)
	api.Delete("/zones/:id", with(adminOnly, cfg.Catalog.DeleteZone)...)
	api.Put("/zones/:id/staff", with(adminOnly, cfg.Catalog.AssignZoneStaff)...)

	api.Get("/businesses", cfg.Catalog.ListBusinesses)
	api.Get("/businesses/active", cfg.Catalog.ListActiveBusinesses)
	api.Post("/businesses", with(adminOnly, cfg.Catalog.CreateBusiness)...)
	api.Delete("/businesses/:id", with(adminOnly, cfg.Catalog.DeleteBusiness)...)

	api.Get("/activities", cfg.Catalog.ListActivities)
	api.Get("/activities/active", cfg.Catalog.ListActiveActivities)
	api.Get("/activities/business/:businessId", cfg.Catalog.ListActivitiesByBusiness)
	api.Post("/activities", with(adminOnly, cfg.Catalog.CreateActivity)...)
	api.Delete("/activities/:id", with(adminOnly, cfg.Catalog.DeleteActivity)...)
	api.Put("/activities/:id/staff", with(adminOnly, cfg.Catalog.AssignActivityStaff)...)

	ambulant := api.Group("/ambulant-clients")
	ambulant.Get("/phone/:phone", cfg.AmbulantClients.Lookup)
	ambulant.Post("/", cfg.AmbulantClients.Register)
	ambulant.Get("/", with(staffOnly, cfg.AmbulantClients.List)...)
	ambulant.Get("/zone/:zoneId", with(staffOnly, cfg.AmbulantClients.ListByZone)...)
	ambulant.Get("/staff/:staffId", with(staffOnly, cfg.AmbulantClients.ListForStaff)...)
	ambulant.Put("/:id/photos", with(staffOnly, cfg.AmbulantClients.DeliverPhotos)...)
	ambulant.Delete("/:id", with(adminOnly, cfg.AmbulantClients.Delete)...)

	activity := api.Group("/activity-clients")
	activity.Get("/phone/:phone", cfg.ActivityClients.Lookup)
	activity.Post("/", cfg.ActivityClients.Register)
	activity.Get("/", with(staffOnly, cfg.ActivityClients.List)...)
	activity.Get("/activity/:activityId", with(staffOnly, cfg.ActivityClients.ListByActivity)...)
	activity.Get("/staff/:staffId", with(staffOnly, cfg.ActivityClients.ListForStaff)...)
	activity.Put("/:id/photos", with(staffOnly, cfg.ActivityClients.DeliverPhotos)...)
	activity.Delete("/:id", with(adminOnly, cfg.ActivityClients.Delete)...)

	api.Post("/services", cfg.Services.Create)
	api.Get("/services", with(adminOnly, cfg.Services.List)...)
	api.Put("/services/:id/quote", with(adminOnly, cfg.Services.Quote)...)
	api.Put("/services/:id/assign", with(adminOnly, cfg.Services.Assign)...)
	api.Delete("/services/:id", with(adminOnly, cfg.Services.Delete)...)

	staff := api.Group("/staff")
	staff.Post("/", cfg.Staff.Apply)
	staff.Get("/validate-token", cfg.Staff.ValidateToken)
	staff.Post("/activate", cfg.Staff.Activate)
	staff.Post("/change-password", cfg.Staff.ChangePassword)
	staff.Post("/login", cfg.Staff.Login)
	staff.Post("/logout", with(staffOnly, cfg.Staff.Logout)...)
	staff.Get("/", with(adminOnly, cfg.Staff.ListApplications)...)
	staff.Post("/approve/:id", with(adminOnly, cfg.Staff.Approve)...)
	staff.Post("/reject/:id", with(adminOnly, cfg.Staff.Reject)...)
	staff.Get("/users", with(adminOnly, cfg.Staff.ListUsers)...)
	staff.Get("/user/:email", with(adminOnly, cfg.Staff.GetUserByEmail)...)
	staff.Delete("/users/:id", with(adminOnly, cfg.Staff.DeleteUser)...)
	staff.Delete("/:id", with(adminOnly, cfg.Staff.DeleteApplication)...)
}
