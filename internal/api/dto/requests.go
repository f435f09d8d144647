package dto

// ZoneCreateRequest payload.
type ZoneCreateRequest struct {
	Nombre      string `json:"nombre" validate:"notblank,max=120"`
	Descripcion string `json:"descripcion" validate:"max=500"`
	Activa      *bool  `json:"activa"`
}

// BusinessCreateRequest payload.
type BusinessCreateRequest struct {
	Nombre    string `json:"nombre" validate:"notblank,max=120"`
	Direccion string `json:"direccion" validate:"max=250"`
	Telefono  string `json:"telefono" validate:"max=40"`
	Activo    *bool  `json:"activo"`
}

// ActivityCreateRequest payload.
type ActivityCreateRequest struct {
	NegocioID   string `json:"negocioId" validate:"notblank"`
	Nombre      string `json:"nombre" validate:"notblank,max=120"`
	Descripcion string `json:"descripcion" validate:"max=500"`
	Fecha       string `json:"fecha"`
	Activa      *bool  `json:"activa"`
}

// AssignStaffRequest replaces the staff assigned to a zone or activity.
type AssignStaffRequest struct {
	StaffIDs []string `json:"staffIds" validate:"dive,notblank"`
}

// AmbulantClientCreateRequest is a self-registration in a zone.
type AmbulantClientCreateRequest struct {
	Nombre           string `json:"nombre" validate:"notblank,max=120"`
	Telefono         string `json:"telefono" validate:"notblank,max=40"`
	Instagram        string `json:"instagram" validate:"max=80"`
	AceptaPublicidad bool   `json:"aceptaPublicidad"`
	FotoReferencia   string `json:"fotoReferencia"`
	ZonaID           string `json:"zonaId" validate:"notblank"`
}

// ActivityClientCreateRequest is a self-registration at an activity.
type ActivityClientCreateRequest struct {
	Nombre           string `json:"nombre" validate:"notblank,max=120"`
	Telefono         string `json:"telefono" validate:"notblank,max=40"`
	Instagram        string `json:"instagram" validate:"max=80"`
	AceptaPublicidad bool   `json:"aceptaPublicidad"`
	FotoReferencia   string `json:"fotoReferencia"`
	NegocioID        string `json:"negocioId" validate:"notblank"`
	ActividadID      string `json:"actividadId" validate:"notblank"`
}

// DeliverPhotosRequest attaches photos to a client. StaffID may be an id or email;
// when omitted the caller's own id is used.
type DeliverPhotosRequest struct {
	Photos  []string `json:"photos" validate:"required,min=1,dive,notblank"`
	StaffID string   `json:"staffId"`
}

// ServiceDetailsPayload describes the event.
type ServiceDetailsPayload struct {
	Locacion    string `json:"locacion"`
	Descripcion string `json:"descripcion"`
	FechaEvento string `json:"fechaEvento"`
	Horas       int    `json:"horas" validate:"gte=0"`
	Personas    int    `json:"personas" validate:"gte=0"`
}

// ServiceContactPayload is who to call back.
type ServiceContactPayload struct {
	Nombre   string `json:"nombre" validate:"notblank"`
	Telefono string `json:"telefono" validate:"notblank"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// ServiceRequestCreateRequest payload.
type ServiceRequestCreateRequest struct {
	Tipo     string                `json:"tipo" validate:"oneof=sesion_privada evento boda evento_social corporativo"`
	Detalles ServiceDetailsPayload `json:"detalles"`
	Contacto ServiceContactPayload `json:"contacto"`
}

// QuoteRequest payload.
type QuoteRequest struct {
	CotizacionEstimada float64 `json:"cotizacionEstimada" validate:"gt=0"`
}

// AssignServiceRequest payload.
type AssignServiceRequest struct {
	StaffID string `json:"staffId" validate:"notblank"`
}

// StaffApplicationCreateRequest payload.
type StaffApplicationCreateRequest struct {
	Nombre          string   `json:"nombre" validate:"notblank,max=120"`
	Email           string   `json:"email" validate:"required,email"`
	Telefono        string   `json:"telefono" validate:"max=40"`
	Experiencia     string   `json:"experiencia"`
	Equipo          string   `json:"equipo"`
	Especialidades  []string `json:"especialidades"`
	FotosReferencia []string `json:"fotosReferencia"`
}

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ActivateRequest payload.
type ActivateRequest struct {
	Token    string `json:"token" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}
