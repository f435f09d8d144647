package portal

import (
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
)

// View is the screen the portal shows.
type View string

const (
	ViewHome            View = "home"
	ViewLookup          View = "lookup"
	ViewPending         View = "pending"
	ViewGallery         View = "gallery"
	ViewNotRegistered   View = "not_registered"
	ViewRegister        View = "register"
	ViewStaffLogin      View = "staff_login"
	ViewStaffDashboard  View = "staff_dashboard"
	ViewAdminDashboard  View = "admin_dashboard"
	ViewActivateAccount View = "activate_account"
)

// DefaultRedirectDelay is how long the not-registered view waits before
// sending the visitor to registration.
const DefaultRedirectDelay = 10 * time.Second

// AppState is the single owner of the portal's view state. Components receive
// it explicitly instead of sharing globals.
type AppState struct {
	mu            sync.Mutex
	view          View
	lookup        LookupResult
	profile       *Profile
	redirectDelay time.Duration
	countdown     *countdown
	onChange      func(View)
}

type countdown struct {
	deadline time.Time
	stop     chan struct{}
	done     chan struct{}
}

// NewAppState starts on the home view. A non-positive redirectDelay uses the default.
func NewAppState(redirectDelay time.Duration, onChange func(View)) *AppState {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &AppState{view: ViewHome, redirectDelay: redirectDelay, onChange: onChange}
}

// View returns the current view.
func (s *AppState) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// LastLookup returns the most recent lookup result.
func (s *AppState) LastLookup() LookupResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup
}

// Profile returns the logged-in staff member, or nil.
func (s *AppState) Profile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Navigate switches views and cancels a pending registration redirect.
func (s *AppState) Navigate(v View) {
	s.mu.Lock()
	cd := s.detachCountdownLocked()
	cb := s.setViewLocked(v)
	s.mu.Unlock()
	cd.cancel()
	notify(cb, v)
}

// ApplyLookup moves to the view a lookup result leads to. A not-registered
// result starts the countdown to the registration view.
func (s *AppState) ApplyLookup(r LookupResult) {
	var next View
	switch r.State {
	case LookupPending:
		next = ViewPending
	case LookupReady:
		next = ViewGallery
	case LookupNotRegistered:
		next = ViewNotRegistered
	default:
		next = ViewLookup
	}

	s.mu.Lock()
	old := s.detachCountdownLocked()
	s.lookup = r
	cb := s.setViewLocked(next)
	if next == ViewNotRegistered {
		s.startCountdownLocked()
	}
	s.mu.Unlock()
	old.cancel()
	notify(cb, next)
}

// SetProfile records the logged-in staff member and opens the matching dashboard.
// nil logs out to the home view.
func (s *AppState) SetProfile(p *Profile) {
	next := ViewHome
	if p != nil {
		next = ViewStaffDashboard
		if domain.StaffRole(p.Staff.Role) == domain.StaffRoleAdmin {
			next = ViewAdminDashboard
		}
	}
	s.mu.Lock()
	old := s.detachCountdownLocked()
	s.profile = p
	cb := s.setViewLocked(next)
	s.mu.Unlock()
	old.cancel()
	notify(cb, next)
}

// RedirectIn returns the time left before the registration redirect, or zero
// when none is pending.
func (s *AppState) RedirectIn() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countdown == nil {
		return 0
	}
	if left := time.Until(s.countdown.deadline); left > 0 {
		return left
	}
	return 0
}

// Close stops any pending redirect.
func (s *AppState) Close() {
	s.mu.Lock()
	cd := s.detachCountdownLocked()
	s.mu.Unlock()
	cd.cancel()
}

func (s *AppState) setViewLocked(v View) func(View) {
	s.view = v
	return s.onChange
}

func (s *AppState) detachCountdownLocked() *countdown {
	cd := s.countdown
	s.countdown = nil
	return cd
}

func (s *AppState) startCountdownLocked() {
	cd := &countdown{
		deadline: time.Now().Add(s.redirectDelay),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.countdown = cd
	go s.runCountdown(cd, s.redirectDelay)
}

func (s *AppState) runCountdown(cd *countdown, delay time.Duration) {
	defer close(cd.done)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-cd.stop:
		return
	case <-timer.C:
	}

	s.mu.Lock()
	if s.countdown != cd {
		s.mu.Unlock()
		return
	}
	s.countdown = nil
	cb := s.setViewLocked(ViewRegister)
	s.mu.Unlock()
	notify(cb, ViewRegister)
}

// cancel stops the countdown goroutine and waits for it. nil is a no-op.
func (cd *countdown) cancel() {
	if cd == nil {
		return
	}
	close(cd.stop)
	<-cd.done
}

func notify(cb func(View), v View) {
	if cb != nil {
		cb(v)
	}
}
