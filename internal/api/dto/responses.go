package dto

import (
	"time"

	"github.com/fotosexpress/portal/internal/domain"
)

// ClientResponse is the wire shape of a client record of either kind.
type ClientResponse struct {
	ID                string    `json:"id"`
	Tipo              string    `json:"tipo"`
	Nombre            string    `json:"nombre"`
	Telefono          string    `json:"telefono"`
	Instagram         string    `json:"instagram,omitempty"`
	AceptaPublicidad  bool      `json:"aceptaPublicidad"`
	FotoReferencia    string    `json:"fotoReferencia,omitempty"`
	ZonaID            string    `json:"zonaId,omitempty"`
	ZonaNombre        string    `json:"zonaNombre,omitempty"`
	NegocioID         string    `json:"negocioId,omitempty"`
	NegocioNombre     string    `json:"negocioNombre,omitempty"`
	ActividadID       string    `json:"actividadId,omitempty"`
	ActividadNombre   string    `json:"actividadNombre,omitempty"`
	Status            string    `json:"status"`
	FotosSubidas      []string  `json:"fotosSubidas,omitempty"`
	FotografoAsignado *string   `json:"fotografoAsignado,omitempty"`
	FechaRegistro     time.Time `json:"fechaRegistro"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ToDomain rebuilds the tagged record from its wire shape.
func (r ClientResponse) ToDomain() domain.ClientRecord {
	rec := domain.ClientRecord{
		ID:                r.ID,
		Kind:              domain.ClientKind(r.Tipo),
		Nombre:            r.Nombre,
		Telefono:          r.Telefono,
		Instagram:         r.Instagram,
		AceptaPublicidad:  r.AceptaPublicidad,
		FotoReferencia:    r.FotoReferencia,
		Status:            domain.ClientStatus(r.Status),
		FotosSubidas:      r.FotosSubidas,
		FotografoAsignado: r.FotografoAsignado,
		CreatedAt:         r.FechaRegistro,
		UpdatedAt:         r.UpdatedAt,
	}
	switch rec.Kind {
	case domain.ClientKindAmbulant:
		rec.Zone = &domain.ZoneRef{ZoneID: r.ZonaID, ZoneName: r.ZonaNombre}
	case domain.ClientKindActivity:
		rec.Activity = &domain.ActivityRef{
			BusinessID:   r.NegocioID,
			BusinessName: r.NegocioNombre,
			ActivityID:   r.ActividadID,
			ActivityName: r.ActividadNombre,
		}
	}
	return rec
}

// ZoneResponse payload.
type ZoneResponse struct {
	ID                  string    `json:"id"`
	Nombre              string    `json:"nombre"`
	Descripcion         string    `json:"descripcion"`
	Activa              bool      `json:"activa"`
	FotografosAsignados []string  `json:"fotografosAsignados"`
	CreatedAt           time.Time `json:"createdAt"`
}

// BusinessResponse payload.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Telefono  string    `json:"telefono"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityResponse payload.
type ActivityResponse struct {
	ID                  string    `json:"id"`
	NegocioID           string    `json:"negocioId"`
	NegocioNombre       string    `json:"negocioNombre"`
	Nombre              string    `json:"nombre"`
	Descripcion         string    `json:"descripcion"`
	Fecha               string    `json:"fecha"`
	Activa              bool      `json:"activa"`
	FotografosAsignados []string  `json:"fotografosAsignados"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ServiceRequestResponse payload.
type ServiceRequestResponse struct {
	ID                  string                `json:"id"`
	Tipo                string                `json:"tipo"`
	Detalles            ServiceDetailsPayload `json:"detalles"`
	Contacto            ServiceContactPayload `json:"contacto"`
	CotizacionEstimada  *float64              `json:"cotizacionEstimada,omitempty"`
	FotografoAsignadoID *string               `json:"fotografoAsignadoId,omitempty"`
	Status              string                `json:"status"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// StaffApplicationResponse payload.
type StaffApplicationResponse struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	Email           string    `json:"email"`
	Telefono        string    `json:"telefono"`
	Experiencia     string    `json:"experiencia"`
	Equipo          string    `json:"equipo"`
	Especialidades  []string  `json:"especialidades"`
	FotosReferencia []string  `json:"fotosReferencia"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToDomain converts the wire shape back to an application.
func (r StaffApplicationResponse) ToDomain() domain.StaffApplication {
	return domain.StaffApplication{
		ID:              r.ID,
		Nombre:          r.Nombre,
		Email:           r.Email,
		Telefono:        r.Telefono,
		Experiencia:     r.Experiencia,
		Equipo:          r.Equipo,
		Especialidades:  r.Especialidades,
		FotosReferencia: r.FotosReferencia,
		Status:          domain.ApplicationStatus(r.Status),
		CreatedAt:       r.CreatedAt,
	}
}

// StaffUserResponse never carries credentials.
type StaffUserResponse struct {
	ID                   string    `json:"id"`
	Nombre               string    `json:"nombre"`
	Email                string    `json:"email"`
	Telefono             string    `json:"telefono"`
	Role                 string    `json:"role"`
	IsActive             bool      `json:"isActive"`
	ZonasAsignadas       []string  `json:"zonasAsignadas"`
	ActividadesAsignadas []string  `json:"actividadesAsignadas"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ToDomain converts the wire shape back to a staff user.
func (r StaffUserResponse) ToDomain() domain.StaffUser {
	return domain.StaffUser{
		ID:                   r.ID,
		Nombre:               r.Nombre,
		Email:                r.Email,
		Telefono:             r.Telefono,
		Role:                 domain.StaffRole(r.Role),
		IsActive:             r.IsActive,
		ZonasAsignadas:       r.ZonasAsignadas,
		ActividadesAsignadas: r.ActividadesAsignadas,
		CreatedAt:            r.CreatedAt,
	}
}

// ApprovalResponse is returned when an application is approved.
type ApprovalResponse struct {
	ID             string    `json:"id"`
	StaffID        string    `json:"staffId"`
	Nombre         string    `json:"nombre"`
	Email          string    `json:"email"`
	ActivationLink string    `json:"activationLink"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// TokenIdentityResponse is the identity bound to an activation token.
type TokenIdentityResponse struct {
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponse is a staff session plus profile.
type LoginResponse struct {
	Staff StaffUserResponse `json:"staff"`
	Auth  AuthResponse      `json:"auth"`
}

// ErrorBody is the error envelope content.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}
