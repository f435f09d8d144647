package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPhotosDelivered       EventType = "photos_delivered"
	EventStaffApproved         EventType = "staff_approved"
	EventServiceRequestCreated EventType = "service_request_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubjectID    string      `json:"subject_id"`
	ActorStaffID *string     `json:"actor_staff_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, subjectID string, actor *string, at time.Time, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SubjectID:    subjectID,
		ActorStaffID: actor,
		Timestamp:    at,
		Payload:      payload,
	}
}

// PhotosDeliveredPayload payload.
type PhotosDeliveredPayload struct {
	Nombre     string `json:"nombre"`
	Telefono   string `json:"telefono"`
	PhotoCount int    `json:"photo_count"`
}

// StaffApprovedPayload payload.
type StaffApprovedPayload struct {
	StaffID        string    `json:"staff_id"`
	Nombre         string    `json:"nombre"`
	Email          string    `json:"email"`
	ActivationLink string    `json:"activation_link"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ServiceRequestCreatedPayload payload.
type ServiceRequestCreatedPayload struct {
	Tipo     string `json:"tipo"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
}
