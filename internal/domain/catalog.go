package domain

import "time"

// Zone is an operational area where ambulant photographers work.
type Zone struct {
	ID                  string
	Nombre              string
	Descripcion         string
	Activa              bool
	FotografosAsignados []string
	CreatedAt           time.Time
}

// Business hosts activities.
type Business struct {
	ID        string
	Nombre    string
	Direccion string
	Telefono  string
	Activo    bool
	CreatedAt time.Time
}

// Activity is an event hosted by a business.
type Activity struct {
	ID                  string
	NegocioID           string
	NegocioNombre       string
	Nombre              string
	Descripcion         string
	Fecha               string
	Activa              bool
	FotografosAsignados []string
	CreatedAt           time.Time
}
