package portal

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
)

// DashboardAPI lists everything a dashboard shows.
type DashboardAPI interface {
	ListZones(ctx context.Context) ([]dto.ZoneResponse, error)
	ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error)
	ListActivities(ctx context.Context) ([]dto.ActivityResponse, error)
	ListClients(ctx context.Context, kind domain.ClientKind) ([]domain.ClientRecord, error)
	ListClientsForStaff(ctx context.Context, kind domain.ClientKind, staffID string) ([]domain.ClientRecord, error)
	ListServices(ctx context.Context) ([]dto.ServiceRequestResponse, error)
	ListApplications(ctx context.Context) ([]domain.StaffApplication, error)
	ListStaffUsers(ctx context.Context) ([]domain.StaffUser, error)
}

// AdminDashboard is a snapshot of every list the administrator sees.
type AdminDashboard struct {
	Zones           []dto.ZoneResponse
	Businesses      []dto.BusinessResponse
	Activities      []dto.ActivityResponse
	AmbulantClients []domain.ClientRecord
	ActivityClients []domain.ClientRecord
	Services        []dto.ServiceRequestResponse
	Applications    []domain.StaffApplication
	StaffUsers      []domain.StaffUser
	// Degraded names the lists that came back empty because the API was unreachable.
	Degraded []string
}

// PendingApplications are the applications still awaiting review.
func (d *AdminDashboard) PendingApplications() []domain.StaffApplication {
	return domain.FilterPendingApplications(d.Applications)
}

// StaffDashboard is what a photographer sees: clients in the assigned zones and activities.
type StaffDashboard struct {
	AmbulantClients []domain.ClientRecord
	ActivityClients []domain.ClientRecord
	Degraded        []string
}

// Pending returns the waiting records of both kinds, ambulant first.
func (d *StaffDashboard) Pending() []domain.ClientRecord {
	return append(domain.FilterPending(d.AmbulantClients), domain.FilterPending(d.ActivityClients)...)
}

// Completed returns the delivered records of both kinds, ambulant first.
func (d *StaffDashboard) Completed() []domain.ClientRecord {
	return append(domain.FilterCompleted(d.AmbulantClients), domain.FilterCompleted(d.ActivityClients)...)
}

// Dashboards hydrates dashboards with concurrent list calls. A list whose call
// fails because the API is unreachable degrades to empty with a warning; any
// other failure aborts the hydration.
type Dashboards struct {
	api    DashboardAPI
	logger *zap.Logger
}

// NewDashboards builds the hydrator.
func NewDashboards(api DashboardAPI, logger *zap.Logger) *Dashboards {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboards{api: api, logger: logger}
}

// fetch runs one list call inside g, storing into dst. The degraded name is
// recorded through mark.
func fetch[T any](ctx context.Context, g *errgroup.Group, d *Dashboards, name string, dst *[]T, mark func(string), call func(context.Context) ([]T, error)) {
	g.Go(func() error {
		items, err := call(ctx)
		if err != nil {
			if IsConnectionError(err) {
				d.logger.Warn("list unavailable, showing empty", zap.String("list", name), zap.Error(err))
				*dst = []T{}
				mark(name)
				return nil
			}
			return err
		}
		if items == nil {
			items = []T{}
		}
		*dst = items
		return nil
	})
}

// HydrateAdmin loads every admin list in parallel.
func (d *Dashboards) HydrateAdmin(ctx context.Context) (*AdminDashboard, error) {
	out := &AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	marks := newDegradedSet()

	fetch(gctx, g, d, "zones", &out.Zones, marks.add, d.api.ListZones)
	fetch(gctx, g, d, "businesses", &out.Businesses, marks.add, d.api.ListBusinesses)
	fetch(gctx, g, d, "activities", &out.Activities, marks.add, d.api.ListActivities)
	fetch(gctx, g, d, "ambulant-clients", &out.AmbulantClients, marks.add, func(ctx context.Context) ([]domain.ClientRecord, error) {
		return d.api.ListClients(ctx, domain.ClientKindAmbulant)
	})
	fetch(gctx, g, d, "activity-clients", &out.ActivityClients, marks.add, func(ctx context.Context) ([]domain.ClientRecord, error) {
		return d.api.ListClients(ctx, domain.ClientKindActivity)
	})
	fetch(gctx, g, d, "services", &out.Services, marks.add, d.api.ListServices)
	fetch(gctx, g, d, "staff-applications", &out.Applications, marks.add, d.api.ListApplications)
	fetch(gctx, g, d, "staff-users", &out.StaffUsers, marks.add, d.api.ListStaffUsers)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Degraded = marks.sorted()
	return out, nil
}

// HydrateStaff loads a photographer's client lists in parallel.
func (d *Dashboards) HydrateStaff(ctx context.Context, staffID string) (*StaffDashboard, error) {
	out := &StaffDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	marks := newDegradedSet()

	fetch(gctx, g, d, "ambulant-clients", &out.AmbulantClients, marks.add, func(ctx context.Context) ([]domain.ClientRecord, error) {
		return d.api.ListClientsForStaff(ctx, domain.ClientKindAmbulant, staffID)
	})
	fetch(gctx, g, d, "activity-clients", &out.ActivityClients, marks.add, func(ctx context.Context) ([]domain.ClientRecord, error) {
		return d.api.ListClientsForStaff(ctx, domain.ClientKindActivity, staffID)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Degraded = marks.sorted()
	return out, nil
}

type degradedSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newDegradedSet() *degradedSet {
	return &degradedSet{names: make(map[string]struct{})}
}

func (s *degradedSet) add(name string) {
	s.mu.Lock()
	s.names[name] = struct{}{}
	s.mu.Unlock()
}

func (s *degradedSet) sorted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
