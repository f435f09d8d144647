package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/repository"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// StaffService manages photographer applications and staff accounts.
type StaffService struct {
	applications repository.StaffApplicationRepository
	users        repository.StaffUserRepository
	tokens       repository.ActivationTokenRepository
	zones        repository.ZoneRepository
	activities   repository.ActivityRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	app          config.AppConfig
	tokenTTL     time.Duration
	now          func() time.Time
}

// StaffDependencies bundles repositories for staff workflows.
type StaffDependencies struct {
	ApplicationRepo repository.StaffApplicationRepository
	StaffUserRepo   repository.StaffUserRepository
	TokenRepo       repository.ActivationTokenRepository
	ZoneRepo        repository.ZoneRepository
	ActivityRepo    repository.ActivityRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		applications: deps.ApplicationRepo,
		users:        deps.StaffUserRepo,
		tokens:       deps.TokenRepo,
		zones:        deps.ZoneRepo,
		activities:   deps.ActivityRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		app:          cfg.App,
		tokenTTL:     cfg.Auth.ActivationTokenTTL(),
		now:          time.Now,
	}
}

// ApplicationInput is a photographer asking to join.
type ApplicationInput struct {
	Nombre          string
	Email           string
	Telefono        string
	Experiencia     string
	Equipo          string
	Especialidades  []string
	FotosReferencia []string
}

// ApprovalResult is what an administrator needs to hand the activation link over.
type ApprovalResult struct {
	ApplicationID  string
	StaffID        string
	Nombre         string
	Email          string
	ActivationLink string
	ExpiresAt      time.Time
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	return email, nil
}

// CreateApplication stores a pending application.
func (s *StaffService) CreateApplication(ctx context.Context, input ApplicationInput) (*domain.StaffApplication, error) {
	name := strings.TrimSpace(input.Nombre)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{"field": "nombre"})
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	app := &domain.StaffApplication{
		ID:              domain.NewID(domain.PrefixApplication),
		Nombre:          name,
		Email:           email,
		Telefono:        strings.TrimSpace(input.Telefono),
		Experiencia:     strings.TrimSpace(input.Experiencia),
		Equipo:          strings.TrimSpace(input.Equipo),
		Especialidades:  input.Especialidades,
		FotosReferencia: input.FotosReferencia,
		Status:          domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, mapRepoError(err, "application", nil)
	}
	return app, nil
}

func (s *StaffService) ListApplications(ctx context.Context) ([]domain.StaffApplication, error) {
	apps, err := s.applications.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if apps == nil {
		apps = []domain.StaffApplication{}
	}
	return apps, nil
}

func (s *StaffService) DeleteApplication(ctx context.Context, id string) error {
	return mapRepoError(s.applications.Delete(ctx, id), "application", map[string]any{"application_id": id})
}

// Approve accepts a pending application, creating an inactive staff user and a
// single-use activation token. If the account cannot be created the
// application goes back to pending.
func (s *StaffService) Approve(ctx context.Context, id string) (*ApprovalResult, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "application", map[string]any{"application_id": id})
	}
	approved, err := domain.Approve(*app)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, app.Email); err == nil {
		return nil, apperrors.NewConflict("a staff account already uses this email", map[string]any{"email": app.Email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	if err := s.applications.UpdateStatus(ctx, id, app.Status, approved.Status); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewInvalidTransition("application", "changed", "approve")
		}
		return nil, mapRepoError(err, "application", map[string]any{"application_id": id})
	}

	now := s.now()
	user := &domain.StaffUser{
		ID:            domain.NewID(domain.PrefixStaffUser),
		ApplicationID: &app.ID,
		Nombre:        app.Nombre,
		Email:         app.Email,
		Telefono:      app.Telefono,
		Role:          domain.StaffRolePhotographer,
		IsActive:      false,
	}
	token := &domain.ActivationToken{
		Token:     uuid.NewString(),
		StaffID:   user.ID,
		Email:     user.Email,
		Nombre:    user.Nombre,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.revertApproval(ctx, id, "")
		return nil, mapRepoError(err, "staff user", map[string]any{"email": app.Email})
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.revertApproval(ctx, id, user.ID)
		return nil, apperrors.MapError(err)
	}

	result := &ApprovalResult{
		ApplicationID:  app.ID,
		StaffID:        user.ID,
		Nombre:         user.Nombre,
		Email:          user.Email,
		ActivationLink: s.app.ActivationLink(token.Token),
		ExpiresAt:      token.ExpiresAt,
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventStaffApproved, app.ID, nil, now,
			events.StaffApprovedPayload{
				StaffID:        result.StaffID,
				Nombre:         result.Nombre,
				Email:          result.Email,
				ActivationLink: result.ActivationLink,
				ExpiresAt:      result.ExpiresAt,
			}))
	}
	return result, nil
}

func (s *StaffService) revertApproval(ctx context.Context, applicationID, staffID string) {
	if staffID != "" {
		if err := s.users.Delete(ctx, staffID); err != nil {
			s.logger.Error("rollback staff user", zap.String("staff_id", staffID), zap.Error(err))
		}
	}
	err := s.applications.UpdateStatus(ctx, applicationID, domain.ApplicationStatusApproved, domain.ApplicationStatusPending)
	if err != nil {
		s.logger.Error("rollback application approval", zap.String("application_id", applicationID), zap.Error(err))
	}
}

// Reject closes a pending application without creating an account.
func (s *StaffService) Reject(ctx context.Context, id string) (*domain.StaffApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "application", map[string]any{"application_id": id})
	}
	rejected, err := domain.Reject(*app)
	if err != nil {
		return nil, err
	}
	if err := s.applications.UpdateStatus(ctx, id, app.Status, rejected.Status); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewInvalidTransition("application", "changed", "reject")
		}
		return nil, mapRepoError(err, "application", map[string]any{"application_id": id})
	}
	return &rejected, nil
}

// ListUsers returns staff accounts with their current assignments.
func (s *StaffService) ListUsers(ctx context.Context) ([]domain.StaffUser, error) {
	users, err := s.users.List(ctx, repository.StaffUserFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.StaffUser, 0, len(users))
	for i := range users {
		if err := fillAssignments(ctx, s.zones, s.activities, &users[i]); err != nil {
			return nil, err
		}
		out = append(out, users[i])
	}
	return out, nil
}

func (s *StaffService) GetUserByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapRepoError(err, "staff user", map[string]any{"email": email})
	}
	if err := fillAssignments(ctx, s.zones, s.activities, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a staff account and any activation tokens it still holds.
func (s *StaffService) DeleteUser(ctx context.Context, id string) error {
	if err := s.tokens.DeleteByStaff(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return mapRepoError(s.users.Delete(ctx, id), "staff user", map[string]any{"staff_id": id})
}

// fillAssignments derives the zone and activity ids a staff member works.
func fillAssignments(ctx context.Context, zones repository.ZoneRepository, activities repository.ActivityRepository, user *domain.StaffUser) error {
	assignedZones, err := zones.ListByStaff(ctx, user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	assignedActivities, err := activities.List(ctx, repository.ActivityFilter{StaffID: &user.ID})
	if err != nil {
		return apperrors.MapError(err)
	}
	user.ZonasAsignadas = make([]string, 0, len(assignedZones))
	for _, z := range assignedZones {
		user.ZonasAsignadas = append(user.ZonasAsignadas, z.ID)
	}
	user.ActividadesAsignadas = make([]string, 0, len(assignedActivities))
	for _, a := range assignedActivities {
		user.ActividadesAsignadas = append(user.ActividadesAsignadas, a.ID)
	}
	return nil
}
