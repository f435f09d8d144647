package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// BusinessRepository manages business persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Business, error)
	Delete(ctx context.Context, id string) error
}

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository builds the repository.
func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	const query = `
        INSERT INTO businesses (id, nombre, direccion, telefono, activo)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		business.ID,
		business.Nombre,
		business.Direccion,
		business.Telefono,
		business.Activo,
	).Scan(&business.CreatedAt)
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	const query = `
        SELECT id, nombre, direccion, telefono, activo, created_at
        FROM businesses WHERE id=$1`
	var business domain.Business
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&business.ID,
		&business.Nombre,
		&business.Direccion,
		&business.Telefono,
		&business.Activo,
		&business.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &business, nil
}

func (r *businessRepository) List(ctx context.Context, onlyActive bool) ([]domain.Business, error) {
	query := `
        SELECT id, nombre, direccion, telefono, activo, created_at
        FROM businesses`
	if onlyActive {
		query += ` WHERE activo`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Business
	for rows.Next() {
		var business domain.Business
		if err := rows.Scan(
			&business.ID,
			&business.Nombre,
			&business.Direccion,
			&business.Telefono,
			&business.Activo,
			&business.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, business)
	}
	return result, rows.Err()
}

func (r *businessRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
