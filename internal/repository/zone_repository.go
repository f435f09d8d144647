package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// ZoneRepository handles persistence for zones.
type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.Zone) error
	GetByID(ctx context.Context, id string) (*domain.Zone, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Zone, error)
	ListByStaff(ctx context.Context, staffID string) ([]domain.Zone, error)
	ReplaceStaff(ctx context.Context, id string, staffIDs []string) error
	Delete(ctx context.Context, id string) error
}

type zoneRepository struct {
	pool *pgxpool.Pool
}

// NewZoneRepository instantiates the repository.
func NewZoneRepository(pool *pgxpool.Pool) ZoneRepository {
	return &zoneRepository{pool: pool}
}

const zoneColumns = `id, nombre, descripcion, activa, fotografos_asignados, created_at`

func (r *zoneRepository) Create(ctx context.Context, zone *domain.Zone) error {
	const query = `
        INSERT INTO zones (id, nombre, descripcion, activa, fotografos_asignados)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		zone.ID,
		zone.Nombre,
		zone.Descripcion,
		zone.Activa,
		nonNil(zone.FotografosAsignados),
	).Scan(&zone.CreatedAt)
}

func (r *zoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id=$1`
	var zone domain.Zone
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&zone.ID,
		&zone.Nombre,
		&zone.Descripcion,
		&zone.Activa,
		&zone.FotografosAsignados,
		&zone.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &zone, nil
}

func (r *zoneRepository) List(ctx context.Context, onlyActive bool) ([]domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones`
	if onlyActive {
		query += ` WHERE activa`
	}
	query += ` ORDER BY created_at, id`
	return r.query(ctx, query)
}

func (r *zoneRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE $1 = ANY(fotografos_asignados) ORDER BY created_at, id`
	return r.query(ctx, query, staffID)
}

func (r *zoneRepository) query(ctx context.Context, query string, args ...any) ([]domain.Zone, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Zone
	for rows.Next() {
		var zone domain.Zone
		if err := rows.Scan(
			&zone.ID,
			&zone.Nombre,
			&zone.Descripcion,
			&zone.Activa,
			&zone.FotografosAsignados,
			&zone.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, zone)
	}
	return result, rows.Err()
}

func (r *zoneRepository) ReplaceStaff(ctx context.Context, id string, staffIDs []string) error {
	const query = `UPDATE zones SET fotografos_asignados=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, nonNil(staffIDs), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *zoneRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM zones WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
