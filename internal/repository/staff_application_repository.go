package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// StaffApplicationRepository persists photographer applications.
type StaffApplicationRepository interface {
	Create(ctx context.Context, app *domain.StaffApplication) error
	GetByID(ctx context.Context, id string) (*domain.StaffApplication, error)
	List(ctx context.Context) ([]domain.StaffApplication, error)
	// UpdateStatus moves an application from one status to another, failing
	// with ErrStaleState when it is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) error
	Delete(ctx context.Context, id string) error
}

type staffApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewStaffApplicationRepository constructs the repository.
func NewStaffApplicationRepository(pool *pgxpool.Pool) StaffApplicationRepository {
	return &staffApplicationRepository{pool: pool}
}

const staffApplicationColumns = `id, nombre, email, telefono, experiencia, equipo, especialidades, fotos_referencia, status, created_at`

func (r *staffApplicationRepository) Create(ctx context.Context, app *domain.StaffApplication) error {
	const query = `
        INSERT INTO staff_applications (id, nombre, email, telefono, experiencia, equipo, especialidades, fotos_referencia, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		app.ID,
		app.Nombre,
		app.Email,
		app.Telefono,
		app.Experiencia,
		app.Equipo,
		nonNil(app.Especialidades),
		nonNil(app.FotosReferencia),
		app.Status,
	).Scan(&app.CreatedAt)
}

func (r *staffApplicationRepository) GetByID(ctx context.Context, id string) (*domain.StaffApplication, error) {
	query := `SELECT ` + staffApplicationColumns + ` FROM staff_applications WHERE id=$1`
	app, err := scanStaffApplication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return app, nil
}

func (r *staffApplicationRepository) List(ctx context.Context) ([]domain.StaffApplication, error) {
	query := `SELECT ` + staffApplicationColumns + ` FROM staff_applications ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffApplication
	for rows.Next() {
		app, err := scanStaffApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *app)
	}
	return result, rows.Err()
}

func (r *staffApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE staff_applications SET status=$1 WHERE id=$2 AND status=$3`, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStaleState
	}
	return nil
}

func (r *staffApplicationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStaffApplication(row rowScanner) (*domain.StaffApplication, error) {
	var app domain.StaffApplication
	if err := row.Scan(
		&app.ID,
		&app.Nombre,
		&app.Email,
		&app.Telefono,
		&app.Experiencia,
		&app.Equipo,
		&app.Especialidades,
		&app.FotosReferencia,
		&app.Status,
		&app.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}
