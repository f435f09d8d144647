package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// ActivityRepository manages activity persistence.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	ReplaceStaff(ctx context.Context, id string, staffIDs []string) error
	Delete(ctx context.Context, id string) error
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	BusinessID *string
	StaffID    *string
	OnlyActive bool
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds the repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activities (id, negocio_id, negocio_nombre, nombre, descripcion, fecha, activa, fotografos_asignados)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.NegocioID,
		activity.NegocioNombre,
		activity.Nombre,
		activity.Descripcion,
		activity.Fecha,
		activity.Activa,
		nonNil(activity.FotografosAsignados),
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	const query = `
        SELECT id, negocio_id, negocio_nombre, nombre, descripcion, fecha, activa, fotografos_asignados, created_at
        FROM activities WHERE id=$1`
	var activity domain.Activity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&activity.ID,
		&activity.NegocioID,
		&activity.NegocioNombre,
		&activity.Nombre,
		&activity.Descripcion,
		&activity.Fecha,
		&activity.Activa,
		&activity.FotografosAsignados,
		&activity.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	query := `
        SELECT id, negocio_id, negocio_nombre, nombre, descripcion, fecha, activa, fotografos_asignados, created_at
        FROM activities`
	args := []any{}
	clauses := []string{}

	if filter.BusinessID != nil {
		args = append(args, *filter.BusinessID)
		clauses = append(clauses, fmt.Sprintf("negocio_id=$%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(fotografos_asignados)", len(args)))
	}
	if filter.OnlyActive {
		clauses = append(clauses, "activa")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.NegocioID,
			&activity.NegocioNombre,
			&activity.Nombre,
			&activity.Descripcion,
			&activity.Fecha,
			&activity.Activa,
			&activity.FotografosAsignados,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}

func (r *activityRepository) ReplaceStaff(ctx context.Context, id string, staffIDs []string) error {
	const query = `UPDATE activities SET fotografos_asignados=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, nonNil(staffIDs), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
