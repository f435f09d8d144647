package memory

import (
	"context"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
)

type serviceRepo struct {
	t   *table[domain.ServiceRequest]
	now func() time.Time
}

func cloneService(req domain.ServiceRequest) domain.ServiceRequest {
	if req.CotizacionEstimada != nil {
		v := *req.CotizacionEstimada
		req.CotizacionEstimada = &v
	}
	if req.FotografoAsignadoID != nil {
		v := *req.FotografoAsignadoID
		req.FotografoAsignadoID = &v
	}
	return req
}

func (r *serviceRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.now()
	}
	return r.t.insert(req.ID, cloneService(*req))
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	req, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	out := cloneService(req)
	return &out, nil
}

func (r *serviceRepo) List(_ context.Context) ([]domain.ServiceRequest, error) {
	out := r.t.list(nil, func(req domain.ServiceRequest) time.Time { return req.CreatedAt })
	for i := range out {
		out[i] = cloneService(out[i])
	}
	return out, nil
}

func (r *serviceRepo) Update(_ context.Context, req *domain.ServiceRequest, expected domain.ServiceStatus) error {
	return r.t.update(req.ID, func(stored domain.ServiceRequest) (domain.ServiceRequest, error) {
		if stored.Status != expected {
			return stored, repository.ErrStaleState
		}
		next := cloneService(*req)
		next.CreatedAt = stored.CreatedAt
		return next, nil
	})
}

func (r *serviceRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}
