package domain

import (
	"strings"
	"time"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

var allowedApplicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved: {},
	ApplicationStatusRejected: {},
}

var allowedServiceTransitions = map[ServiceStatus][]ServiceStatus{
	ServiceStatusPending:  {ServiceStatusQuoted, ServiceStatusAssigned},
	ServiceStatusQuoted:   {ServiceStatusAssigned},
	ServiceStatusAssigned: {},
}

func isValidApplicationTransition(current, next ApplicationStatus) bool {
	for _, candidate := range allowedApplicationTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func isValidServiceTransition(current, next ServiceStatus) bool {
	for _, candidate := range allowedServiceTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// DeliverPhotos is the event attaching final photos to a client record.
type DeliverPhotos struct {
	PhotoURLs   []string
	DeliveredBy string
	At          time.Time
}

// Deliver applies DeliverPhotos to rec and returns the delivered copy.
// rec itself is never modified.
func Deliver(rec ClientRecord, ev DeliverPhotos) (ClientRecord, error) {
	urls := make([]string, 0, len(ev.PhotoURLs))
	for _, u := range ev.PhotoURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return rec, apperrors.NewValidationError("at least one photo required", map[string]any{"field": "photos"})
	}
	staffID := strings.TrimSpace(ev.DeliveredBy)
	if staffID == "" {
		return rec, apperrors.NewValidationError("staff identity required", map[string]any{"field": "staffId"})
	}
	if rec.Status != ClientStatusWaiting {
		return rec, apperrors.NewInvalidTransition("client", string(rec.Status), "deliver photos")
	}

	out := rec.Clone()
	out.Status = ClientStatusDelivered
	out.FotosSubidas = urls
	out.FotografoAsignado = &staffID
	if !ev.At.IsZero() {
		out.UpdatedAt = ev.At
	}
	return out, nil
}

// Approve moves a pending application to approved.
func Approve(app StaffApplication) (StaffApplication, error) {
	return transitionApplication(app, ApplicationStatusApproved, "approve")
}

// Reject moves a pending application to rejected.
func Reject(app StaffApplication) (StaffApplication, error) {
	return transitionApplication(app, ApplicationStatusRejected, "reject")
}

func transitionApplication(app StaffApplication, next ApplicationStatus, event string) (StaffApplication, error) {
	if !isValidApplicationTransition(app.Status, next) {
		return app, apperrors.NewInvalidTransition("application", string(app.Status), event)
	}
	app.Status = next
	return app, nil
}

// Quote records an estimate on a pending service request.
func Quote(req ServiceRequest, amount float64) (ServiceRequest, error) {
	if amount <= 0 {
		return req, apperrors.NewValidationError("quote must be positive", map[string]any{"field": "cotizacionEstimada"})
	}
	if !isValidServiceTransition(req.Status, ServiceStatusQuoted) {
		return req, apperrors.NewInvalidTransition("service request", string(req.Status), "quote")
	}
	req.Status = ServiceStatusQuoted
	req.CotizacionEstimada = &amount
	return req, nil
}

// AssignPhotographer hands a service request to a staff member.
func AssignPhotographer(req ServiceRequest, staffID string) (ServiceRequest, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return req, apperrors.NewValidationError("staff id required", map[string]any{"field": "staffId"})
	}
	if !isValidServiceTransition(req.Status, ServiceStatusAssigned) {
		return req, apperrors.NewInvalidTransition("service request", string(req.Status), "assign")
	}
	req.Status = ServiceStatusAssigned
	req.FotografoAsignadoID = &staffID
	return req, nil
}

// FilterPending keeps records still waiting for photos, preserving order.
func FilterPending(records []ClientRecord) []ClientRecord {
	return filterByStatus(records, ClientStatusWaiting)
}

// FilterCompleted keeps delivered records, preserving order.
func FilterCompleted(records []ClientRecord) []ClientRecord {
	return filterByStatus(records, ClientStatusDelivered)
}

func filterByStatus(records []ClientRecord, status ClientStatus) []ClientRecord {
	out := make([]ClientRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// FilterPendingApplications keeps applications awaiting review.
func FilterPendingApplications(apps []StaffApplication) []StaffApplication {
	out := make([]StaffApplication, 0, len(apps))
	for _, app := range apps {
		if app.Status == ApplicationStatusPending {
			out = append(out, app)
		}
	}
	return out
}
