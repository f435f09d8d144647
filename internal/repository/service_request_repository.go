package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// ServiceRequestRepository persists quote requests.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	List(ctx context.Context) ([]domain.ServiceRequest, error)
	// Update writes req only while the stored status still equals expected.
	Update(ctx context.Context, req *domain.ServiceRequest, expected domain.ServiceStatus) error
	Delete(ctx context.Context, id string) error
}

type serviceRequestRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRequestRepository constructs the repository.
func NewServiceRequestRepository(pool *pgxpool.Pool) ServiceRequestRepository {
	return &serviceRequestRepository{pool: pool}
}

const serviceRequestColumns = `id, tipo, locacion, descripcion, fecha_evento, horas, personas,
               contacto_nombre, contacto_telefono, contacto_email,
               cotizacion_estimada, fotografo_asignado_id, status, created_at`

func (r *serviceRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (id, tipo, locacion, descripcion, fecha_evento, horas, personas,
               contacto_nombre, contacto_telefono, contacto_email, cotizacion_estimada, fotografo_asignado_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.Tipo,
		req.Detalles.Locacion,
		req.Detalles.Descripcion,
		req.Detalles.FechaEvento,
		req.Detalles.Horas,
		req.Detalles.Personas,
		req.Contacto.Nombre,
		req.Contacto.Telefono,
		req.Contacto.Email,
		req.CotizacionEstimada,
		req.FotografoAsignadoID,
		req.Status,
	).Scan(&req.CreatedAt)
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id=$1`
	req, err := scanServiceRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return req, nil
}

func (r *serviceRequestRepository) List(ctx context.Context) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceRequest
	for rows.Next() {
		req, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func (r *serviceRequestRepository) Update(ctx context.Context, req *domain.ServiceRequest, expected domain.ServiceStatus) error {
	const query = `
        UPDATE service_requests SET cotizacion_estimada=$1, fotografo_asignado_id=$2, status=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		req.CotizacionEstimada,
		req.FotografoAsignadoID,
		req.Status,
		req.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return err
		}
		return ErrStaleState
	}
	return nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM service_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanServiceRequest(row rowScanner) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	if err := row.Scan(
		&req.ID,
		&req.Tipo,
		&req.Detalles.Locacion,
		&req.Detalles.Descripcion,
		&req.Detalles.FechaEvento,
		&req.Detalles.Horas,
		&req.Detalles.Personas,
		&req.Contacto.Nombre,
		&req.Contacto.Telefono,
		&req.Contacto.Email,
		&req.CotizacionEstimada,
		&req.FotografoAsignadoID,
		&req.Status,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
