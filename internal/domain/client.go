package domain

import "time"

// ClientKind tags the two client record variants.
type ClientKind string

const (
	ClientKindAmbulant ClientKind = "AMBULANT"
	ClientKindActivity ClientKind = "ACTIVITY"
)

// Valid reports whether k is a known variant.
func (k ClientKind) Valid() bool {
	return k == ClientKindAmbulant || k == ClientKindActivity
}

// ClientStatus is the delivery state of a client record.
type ClientStatus string

const (
	ClientStatusWaiting   ClientStatus = "esperando_fotos"
	ClientStatusDelivered ClientStatus = "atendido"
)

// ZoneRef associates an ambulant client with the zone it was photographed in.
type ZoneRef struct {
	ZoneID   string
	ZoneName string
}

// ActivityRef associates an activity client with a business event.
type ActivityRef struct {
	BusinessID   string
	BusinessName string
	ActivityID   string
	ActivityName string
}

// ClientRecord is a person waiting for, or holding, delivered photos.
// Exactly one of Zone or Activity is set, matching Kind.
type ClientRecord struct {
	ID               string
	Kind             ClientKind
	Nombre           string
	Telefono         string
	Instagram        string
	AceptaPublicidad bool
	FotoReferencia   string
	Zone             *ZoneRef
	Activity         *ActivityRef
	Status           ClientStatus
	FotosSubidas     []string
	// FotografoAsignado is the staff id that delivered the photos.
	FotografoAsignado *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDelivered reports whether the photos were delivered.
func (c ClientRecord) IsDelivered() bool {
	return c.Status == ClientStatusDelivered
}

// ConsistentDelivery checks the delivery invariant: a delivered record carries
// photos and a photographer, a waiting record carries neither.
func (c ClientRecord) ConsistentDelivery() bool {
	switch c.Status {
	case ClientStatusWaiting:
		return len(c.FotosSubidas) == 0 && c.FotografoAsignado == nil
	case ClientStatusDelivered:
		return len(c.FotosSubidas) > 0 && c.FotografoAsignado != nil && *c.FotografoAsignado != ""
	default:
		return false
	}
}

// InActivity reports whether the record belongs to the given business activity.
func (c ClientRecord) InActivity(businessID, activityID string) bool {
	return c.Activity != nil && c.Activity.BusinessID == businessID && c.Activity.ActivityID == activityID
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (c ClientRecord) Clone() ClientRecord {
	out := c
	if c.Zone != nil {
		z := *c.Zone
		out.Zone = &z
	}
	if c.Activity != nil {
		a := *c.Activity
		out.Activity = &a
	}
	if c.FotosSubidas != nil {
		out.FotosSubidas = append([]string(nil), c.FotosSubidas...)
	}
	if c.FotografoAsignado != nil {
		id := *c.FotografoAsignado
		out.FotografoAsignado = &id
	}
	return out
}
