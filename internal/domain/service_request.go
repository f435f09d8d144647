package domain

import "time"

// ServiceStatus tracks a quote request.
type ServiceStatus string

const (
	ServiceStatusPending  ServiceStatus = "pendiente"
	ServiceStatusQuoted   ServiceStatus = "cotizado"
	ServiceStatusAssigned ServiceStatus = "asignado"
)

// ServiceType enumerates the kinds of sessions a client can request.
type ServiceType string

const (
	ServiceTypePrivateSession ServiceType = "sesion_privada"
	ServiceTypeEvent          ServiceType = "evento"
	ServiceTypeWedding        ServiceType = "boda"
	ServiceTypeSocialEvent    ServiceType = "evento_social"
	ServiceTypeCorporate      ServiceType = "corporativo"
)

// ServiceDetails describes the event to photograph.
type ServiceDetails struct {
	Locacion    string
	Descripcion string
	FechaEvento string
	Horas       int
	Personas    int
}

// ServiceContact is who asked for the quote.
type ServiceContact struct {
	Nombre   string
	Telefono string
	Email    string
}

// ServiceRequest is a public request for a photography service.
type ServiceRequest struct {
	ID                  string
	Tipo                ServiceType
	Detalles            ServiceDetails
	Contacto            ServiceContact
	CotizacionEstimada  *float64
	FotografoAsignadoID *string
	Status              ServiceStatus
	CreatedAt           time.Time
}
