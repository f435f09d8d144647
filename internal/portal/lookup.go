package portal

import (
	"context"
	"strings"
	"sync"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// Scope narrows a lookup to a client kind and, for activity clients, to one
// business activity.
type Scope struct {
	Kind       domain.ClientKind
	BusinessID string
	ActivityID string
}

// AmbulantScope is the scope of a street lookup.
func AmbulantScope() Scope {
	return Scope{Kind: domain.ClientKindAmbulant}
}

// ActivityScope is the scope of a lookup at a business activity.
func ActivityScope(businessID, activityID string) Scope {
	return Scope{Kind: domain.ClientKindActivity, BusinessID: businessID, ActivityID: activityID}
}

// LookupState is where the lookup view stands.
type LookupState string

const (
	LookupIdle          LookupState = "idle"
	LookupSearching     LookupState = "searching"
	LookupNotRegistered LookupState = "not_registered"
	LookupPending       LookupState = "pending"
	LookupReady         LookupState = "ready"
)

// LookupResult is the outcome of a lookup. Record is set for pending and
// ready results; Photos only for ready ones.
type LookupResult struct {
	State  LookupState
	Record *domain.ClientRecord
	Photos []string
}

// ClientFinder is the one backend call a lookup needs.
type ClientFinder interface {
	FindClientByPhone(ctx context.Context, scope Scope, phone string) (*domain.ClientRecord, error)
}

// LookupFlow runs phone lookups and tracks the searching state.
type LookupFlow struct {
	finder ClientFinder

	mu       sync.Mutex
	state    LookupState
	onChange func(LookupState)
}

// NewLookupFlow builds a flow. onChange, when set, observes every state change.
func NewLookupFlow(finder ClientFinder, onChange func(LookupState)) *LookupFlow {
	return &LookupFlow{finder: finder, state: LookupIdle, onChange: onChange}
}

// State returns the current state.
func (f *LookupFlow) State() LookupState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *LookupFlow) setState(s LookupState) {
	f.mu.Lock()
	f.state = s
	cb := f.onChange
	f.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

// Lookup finds the record for phone within scope. Input problems fail with a
// validation error before any network call. A phone nobody registered is a
// not-registered result, not an error. Any other failure, including a 404
// that does not name a missing client, is an error and leaves the flow idle.
func (f *LookupFlow) Lookup(ctx context.Context, phone string, scope Scope) (LookupResult, error) {
	if err := validateLookup(phone, scope); err != nil {
		return LookupResult{State: f.State()}, err
	}

	f.setState(LookupSearching)
	rec, err := f.finder.FindClientByPhone(ctx, scope, domain.NormalizePhone(phone))
	if err != nil {
		if apperrors.IsNotFoundOf(err, apperrors.ResourceClient) {
			f.setState(LookupNotRegistered)
			return LookupResult{State: LookupNotRegistered}, nil
		}
		f.setState(LookupIdle)
		if IsConnectionError(err) && !apperrors.Is(err, apperrors.CodeConnection) {
			err = apperrors.NewConnectionError(err)
		}
		return LookupResult{State: LookupIdle}, err
	}

	result := ResultFor(rec)
	f.setState(result.State)
	return result, nil
}

// Reset returns the flow to idle.
func (f *LookupFlow) Reset() {
	f.setState(LookupIdle)
}

// ResultFor maps a found record to the view it leads to.
func ResultFor(rec *domain.ClientRecord) LookupResult {
	if rec == nil {
		return LookupResult{State: LookupNotRegistered}
	}
	if rec.IsDelivered() {
		return LookupResult{State: LookupReady, Record: rec, Photos: append([]string(nil), rec.FotosSubidas...)}
	}
	return LookupResult{State: LookupPending, Record: rec}
}

func validateLookup(phone string, scope Scope) error {
	if !scope.Kind.Valid() {
		return apperrors.NewValidationError("unknown client kind", map[string]any{"kind": scope.Kind})
	}
	if scope.Kind == domain.ClientKindActivity &&
		(strings.TrimSpace(scope.BusinessID) == "" || strings.TrimSpace(scope.ActivityID) == "") {
		return apperrors.NewMissingSelection()
	}
	if len(domain.NormalizePhone(phone)) < domain.MinPhoneDigits {
		return apperrors.NewValidationError("phone number too short", map[string]any{"field": "telefono"})
	}
	return nil
}
