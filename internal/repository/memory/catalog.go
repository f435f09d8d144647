package memory

import (
	"context"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
)

type zoneRepo struct {
	t   *table[domain.Zone]
	now func() time.Time
}

func cloneZone(z domain.Zone) domain.Zone {
	z.FotografosAsignados = copyStrings(z.FotografosAsignados)
	return z
}

func zoneCreated(z domain.Zone) time.Time { return z.CreatedAt }

func (r *zoneRepo) Create(_ context.Context, zone *domain.Zone) error {
	if zone.CreatedAt.IsZero() {
		zone.CreatedAt = r.now()
	}
	zone.FotografosAsignados = copyStrings(zone.FotografosAsignados)
	return r.t.insert(zone.ID, cloneZone(*zone))
}

func (r *zoneRepo) GetByID(_ context.Context, id string) (*domain.Zone, error) {
	z, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	out := cloneZone(z)
	return &out, nil
}

func (r *zoneRepo) List(_ context.Context, onlyActive bool) ([]domain.Zone, error) {
	out := r.t.list(func(z domain.Zone) bool { return !onlyActive || z.Activa }, zoneCreated)
	for i := range out {
		out[i] = cloneZone(out[i])
	}
	return out, nil
}

func (r *zoneRepo) ListByStaff(_ context.Context, staffID string) ([]domain.Zone, error) {
	out := r.t.list(func(z domain.Zone) bool { return contains(z.FotografosAsignados, staffID) }, zoneCreated)
	for i := range out {
		out[i] = cloneZone(out[i])
	}
	return out, nil
}

func (r *zoneRepo) ReplaceStaff(_ context.Context, id string, staffIDs []string) error {
	return r.t.update(id, func(z domain.Zone) (domain.Zone, error) {
		z.FotografosAsignados = copyStrings(staffIDs)
		return z, nil
	})
}

func (r *zoneRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type businessRepo struct {
	t   *table[domain.Business]
	now func() time.Time
}

func (r *businessRepo) Create(_ context.Context, business *domain.Business) error {
	if business.CreatedAt.IsZero() {
		business.CreatedAt = r.now()
	}
	return r.t.insert(business.ID, *business)
}

func (r *businessRepo) GetByID(_ context.Context, id string) (*domain.Business, error) {
	b, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *businessRepo) List(_ context.Context, onlyActive bool) ([]domain.Business, error) {
	return r.t.list(
		func(b domain.Business) bool { return !onlyActive || b.Activo },
		func(b domain.Business) time.Time { return b.CreatedAt },
	), nil
}

func (r *businessRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type activityRepo struct {
	t   *table[domain.Activity]
	now func() time.Time
}

func cloneActivity(a domain.Activity) domain.Activity {
	a.FotografosAsignados = copyStrings(a.FotografosAsignados)
	return a
}

func (r *activityRepo) Create(_ context.Context, activity *domain.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = r.now()
	}
	activity.FotografosAsignados = copyStrings(activity.FotografosAsignados)
	return r.t.insert(activity.ID, cloneActivity(*activity))
}

func (r *activityRepo) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	a, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	out := cloneActivity(a)
	return &out, nil
}

func (r *activityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	out := r.t.list(func(a domain.Activity) bool {
		if filter.OnlyActive && !a.Activa {
			return false
		}
		if filter.BusinessID != nil && a.NegocioID != *filter.BusinessID {
			return false
		}
		if filter.StaffID != nil && !contains(a.FotografosAsignados, *filter.StaffID) {
			return false
		}
		return true
	}, func(a domain.Activity) time.Time { return a.CreatedAt })
	for i := range out {
		out[i] = cloneActivity(out[i])
	}
	return out, nil
}

func (r *activityRepo) ReplaceStaff(_ context.Context, id string, staffIDs []string) error {
	return r.t.update(id, func(a domain.Activity) (domain.Activity, error) {
		a.FotografosAsignados = copyStrings(staffIDs)
		return a, nil
	})
}

func (r *activityRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}
