package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/api/http/handlers"
	"github.com/fotosexpress/portal/internal/auth"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/observability"
	"github.com/fotosexpress/portal/internal/repository"
	"github.com/fotosexpress/portal/internal/service"
)

// ServerOptions carries what NewServer needs. Logger, Metrics and Dispatcher
// default to no-op or fresh instances.
type ServerOptions struct {
	Config       config.Config
	Repos        *repository.Repositories
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Dispatcher   events.Dispatcher
	Dependencies map[string]handlers.Dependency
}

// Server is the assembled API.
type Server struct {
	App  *fiber.App
	Auth *service.AuthService
}

// NewServer builds services, handlers and routes on top of opts.Repos.
func NewServer(opts ServerOptions) *Server {
	cfg := opts.Config
	repos := opts.Repos
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}

	catalogService := service.NewCatalogService(service.CatalogDependencies{
		ZoneRepo:      repos.Zones,
		BusinessRepo:  repos.Businesses,
		ActivityRepo:  repos.Activities,
		StaffUserRepo: repos.StaffUsers,
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:    repos.Clients,
		ZoneRepo:      repos.Zones,
		ActivityRepo:  repos.Activities,
		StaffUserRepo: repos.StaffUsers,
		Dispatcher:    dispatcher,
	})
	requestService := service.NewServiceRequestService(repos.Services, repos.StaffUsers, dispatcher)
	staffService := service.NewStaffService(cfg, service.StaffDependencies{
		ApplicationRepo: repos.Applications,
		StaffUserRepo:   repos.StaffUsers,
		TokenRepo:       repos.Tokens,
		ZoneRepo:        repos.Zones,
		ActivityRepo:    repos.Activities,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		StaffUserRepo: repos.StaffUsers,
		TokenRepo:     repos.Tokens,
		Sessions:      repos.Sessions,
		ZoneRepo:      repos.Zones,
		ActivityRepo:  repos.Activities,
		Logger:        logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, opts.Dependencies),
		Catalog:         handlers.NewCatalogHandler(catalogService),
		AmbulantClients: handlers.NewClientsHandler(domain.ClientKindAmbulant, clientService),
		ActivityClients: handlers.NewClientsHandler(domain.ClientKindActivity, clientService),
		Services:        handlers.NewServicesHandler(requestService),
		Staff:           handlers.NewStaffHandler(authService, staffService),
		AuthMiddleware:  auth.NewAuthMiddleware(authService.TokenManager(), repos.Sessions, repos.StaffUsers),
	})

	return &Server{App: app, Auth: authService}
}
