package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the API and the portal client.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeRouteNotFound     = "ROUTE_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeTokenAlreadyUsed  = "TOKEN_ALREADY_USED"
	CodeTokenNotFound     = "TOKEN_NOT_FOUND"
	CodeConnection        = "CONNECTION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

// ReasonMissingSelection marks a validation error raised when an activity-scoped
// lookup lacks its business or activity.
const ReasonMissingSelection = "missing_selection"

// ResourceClient is the resource named by a not-found error for a client record.
const ResourceClient = "client"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewMissingSelection is the validation error of an activity lookup without business/activity.
func NewMissingSelection() error {
	return NewValidationError("business and activity selection required", map[string]any{
		"reason": ReasonMissingSelection,
	})
}

// NewNotFound reports a missing record. The resource is echoed in details so
// callers can tell which record was missing.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	if _, ok := details["resource"]; !ok {
		details["resource"] = resource
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewRouteNotFound reports a request no route answers, which means a wrong
// base URL rather than a missing record.
func NewRouteNotFound(method, path string) error {
	return NewDomainError(CodeRouteNotFound,
		fmt.Sprintf("no route for %s %s", method, path),
		http.StatusNotFound,
		map[string]any{"method": method, "path": path})
}

// NewInvalidTransition reports an event the current state does not accept.
func NewInvalidTransition(entity, from, event string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("%s cannot %s from status %s", entity, event, from),
		http.StatusConflict,
		map[string]any{"from": from, "event": event})
}

func NewTokenExpired() error {
	return NewDomainError(CodeTokenExpired, "activation token expired", http.StatusGone, nil)
}

func NewTokenAlreadyUsed() error {
	return NewDomainError(CodeTokenAlreadyUsed, "account already activated", http.StatusConflict, nil)
}

func NewTokenNotFound() error {
	return NewDomainError(CodeTokenNotFound, "activation token not found", http.StatusNotFound, nil)
}

// NewConnectionError wraps transport failures talking to a backend.
func NewConnectionError(err error) error {
	return &DomainError{
		Code:       CodeConnection,
		Message:    "service unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError is ToDomainError for callers returning error; nil stays nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// Is reports whether err carries a DomainError with the given code.
func Is(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

// IsNotFoundOf reports whether err is a not-found error for resource.
func IsNotFoundOf(err error, resource string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != CodeNotFound {
		return false
	}
	got, _ := domainErr.Details["resource"].(string)
	return got == resource
}

// IsTokenError reports whether err is one of the activation token failures.
func IsTokenError(err error) bool {
	return Is(err, CodeTokenExpired) || Is(err, CodeTokenAlreadyUsed) || Is(err, CodeTokenNotFound)
}
