package domain

import "time"

// ApplicationStatus is the review state of a photographer application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pendiente"
	ApplicationStatusApproved ApplicationStatus = "aprobado"
	ApplicationStatusRejected ApplicationStatus = "rechazado"
)

// StaffApplication is a photographer asking to join the staff.
type StaffApplication struct {
	ID              string
	Nombre          string
	Email           string
	Telefono        string
	Experiencia     string
	Equipo          string
	Especialidades  []string
	FotosReferencia []string
	Status          ApplicationStatus
	CreatedAt       time.Time
}

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRolePhotographer StaffRole = "PHOTOGRAPHER"
	StaffRoleAdmin        StaffRole = "ADMIN"
)

// StaffUser is an account able to deliver photos or administer the portal.
type StaffUser struct {
	ID            string
	ApplicationID *string
	Nombre        string
	Email         string
	Telefono      string
	PasswordHash  string
	Role          StaffRole
	IsActive      bool
	// Assignment sets are derived from zones and activities.
	ZonasAsignadas       []string
	ActividadesAsignadas []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ActivationToken is the one-time credential-setup link issued on approval.
type ActivationToken struct {
	Token     string
	StaffID   string
	Email     string
	Nombre    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// TokenState is the lifecycle position of an activation token.
type TokenState string

const (
	TokenStateValid   TokenState = "valid"
	TokenStateUsed    TokenState = "used"
	TokenStateExpired TokenState = "expired"
)

// State resolves which of valid, used or expired the token is in at now.
// A token whose account is already active counts as used.
func (t ActivationToken) State(now time.Time, accountActive bool) TokenState {
	if t.UsedAt != nil || accountActive {
		return TokenStateUsed
	}
	if !now.Before(t.ExpiresAt) {
		return TokenStateExpired
	}
	return TokenStateValid
}
