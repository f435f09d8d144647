package memory

import (
	"context"
	"strings"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
)

type clientRepo struct {
	t   *table[domain.ClientRecord]
	now func() time.Time
}

func clientKey(kind domain.ClientKind, id string) string {
	return string(kind) + "/" + id
}

func (r *clientRepo) Create(_ context.Context, rec *domain.ClientRecord) error {
	now := r.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	return r.t.insert(clientKey(rec.Kind, rec.ID), rec.Clone())
}

func (r *clientRepo) GetByID(_ context.Context, kind domain.ClientKind, id string) (*domain.ClientRecord, error) {
	rec, err := r.t.get(clientKey(kind, id))
	if err != nil {
		return nil, err
	}
	out := rec.Clone()
	return &out, nil
}

func (r *clientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.ClientRecord, error) {
	out := r.t.list(func(rec domain.ClientRecord) bool {
		return matchesClient(rec, filter)
	}, func(rec domain.ClientRecord) time.Time { return rec.CreatedAt })
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out, nil
}

func matchesClient(rec domain.ClientRecord, filter repository.ClientFilter) bool {
	if filter.Kind != "" && rec.Kind != filter.Kind {
		return false
	}
	if filter.ZoneIDs != nil && (rec.Zone == nil || !contains(filter.ZoneIDs, rec.Zone.ZoneID)) {
		return false
	}
	if filter.ActivityIDs != nil && (rec.Activity == nil || !contains(filter.ActivityIDs, rec.Activity.ActivityID)) {
		return false
	}
	if filter.BusinessID != nil && (rec.Activity == nil || rec.Activity.BusinessID != *filter.BusinessID) {
		return false
	}
	if filter.PhoneSuffix != "" && !strings.HasSuffix(domain.NormalizePhone(rec.Telefono), filter.PhoneSuffix) {
		return false
	}
	if filter.Status != nil && rec.Status != *filter.Status {
		return false
	}
	return true
}

func (r *clientRepo) MarkDelivered(_ context.Context, rec *domain.ClientRecord) error {
	updatedAt := r.now()
	err := r.t.update(clientKey(rec.Kind, rec.ID), func(stored domain.ClientRecord) (domain.ClientRecord, error) {
		if stored.Status != domain.ClientStatusWaiting {
			return stored, repository.ErrStaleState
		}
		next := rec.Clone()
		next.CreatedAt = stored.CreatedAt
		next.UpdatedAt = updatedAt
		return next, nil
	})
	if err != nil {
		return err
	}
	rec.UpdatedAt = updatedAt
	return nil
}

func (r *clientRepo) Delete(_ context.Context, kind domain.ClientKind, id string) error {
	return r.t.remove(clientKey(kind, id))
}
