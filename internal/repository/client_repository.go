package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// ClientRepository persists ambulant and activity client records.
type ClientRepository interface {
	Create(ctx context.Context, rec *domain.ClientRecord) error
	GetByID(ctx context.Context, kind domain.ClientKind, id string) (*domain.ClientRecord, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.ClientRecord, error)
	// MarkDelivered stores a delivered record only if it is still waiting for photos.
	MarkDelivered(ctx context.Context, rec *domain.ClientRecord) error
	Delete(ctx context.Context, kind domain.ClientKind, id string) error
}

// ClientFilter narrows client listings. A non-nil empty ZoneIDs or ActivityIDs
// matches nothing.
type ClientFilter struct {
	Kind        domain.ClientKind
	ZoneIDs     []string
	ActivityIDs []string
	BusinessID  *string
	PhoneSuffix string
	Status      *domain.ClientStatus
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository constructs the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, kind, nombre, telefono, instagram, acepta_publicidad, foto_referencia,
               zona_id, zona_nombre, negocio_id, negocio_nombre, actividad_id, actividad_nombre,
               status, fotos_subidas, fotografo_asignado, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *clientRepository) Create(ctx context.Context, rec *domain.ClientRecord) error {
	const query = `
        INSERT INTO client_records (id, kind, nombre, telefono, telefono_digits, instagram, acepta_publicidad,
               foto_referencia, zona_id, zona_nombre, negocio_id, negocio_nombre, actividad_id, actividad_nombre,
               status, fotos_subidas, fotografo_asignado)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING created_at, updated_at`

	var zoneID, zoneName, businessID, businessName, activityID, activityName *string
	if rec.Zone != nil {
		zoneID, zoneName = &rec.Zone.ZoneID, &rec.Zone.ZoneName
	}
	if rec.Activity != nil {
		businessID, businessName = &rec.Activity.BusinessID, &rec.Activity.BusinessName
		activityID, activityName = &rec.Activity.ActivityID, &rec.Activity.ActivityName
	}

	return r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Kind,
		rec.Nombre,
		rec.Telefono,
		domain.NormalizePhone(rec.Telefono),
		rec.Instagram,
		rec.AceptaPublicidad,
		rec.FotoReferencia,
		zoneID,
		zoneName,
		businessID,
		businessName,
		activityID,
		activityName,
		rec.Status,
		rec.FotosSubidas,
		rec.FotografoAsignado,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, kind domain.ClientKind, id string) (*domain.ClientRecord, error) {
	query := `SELECT ` + clientColumns + ` FROM client_records WHERE kind=$1 AND id=$2`
	rec, err := scanClient(r.pool.QueryRow(ctx, query, kind, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return rec, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.ClientRecord, error) {
	query := `SELECT ` + clientColumns + ` FROM client_records`
	clauses := []string{}
	args := []any{}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if filter.ZoneIDs != nil {
		args = append(args, filter.ZoneIDs)
		clauses = append(clauses, fmt.Sprintf("zona_id = ANY($%d)", len(args)))
	}
	if filter.ActivityIDs != nil {
		args = append(args, filter.ActivityIDs)
		clauses = append(clauses, fmt.Sprintf("actividad_id = ANY($%d)", len(args)))
	}
	if filter.BusinessID != nil {
		args = append(args, *filter.BusinessID)
		clauses = append(clauses, fmt.Sprintf("negocio_id=$%d", len(args)))
	}
	if filter.PhoneSuffix != "" {
		args = append(args, "%"+filter.PhoneSuffix)
		clauses = append(clauses, fmt.Sprintf("telefono_digits LIKE $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
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

	var result []domain.ClientRecord
	for rows.Next() {
		rec, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *clientRepository) MarkDelivered(ctx context.Context, rec *domain.ClientRecord) error {
	const query = `
        UPDATE client_records
        SET status=$1, fotos_subidas=$2, fotografo_asignado=$3, updated_at=NOW()
        WHERE kind=$4 AND id=$5 AND status=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		rec.Status,
		rec.FotosSubidas,
		rec.FotografoAsignado,
		rec.Kind,
		rec.ID,
		domain.ClientStatusWaiting,
	).Scan(&rec.UpdatedAt)
	if err == nil {
		return nil
	}
	if mapNoRows(err) != ErrNotFound {
		return err
	}
	if _, getErr := r.GetByID(ctx, rec.Kind, rec.ID); getErr != nil {
		return getErr
	}
	return ErrStaleState
}

func (r *clientRepository) Delete(ctx context.Context, kind domain.ClientKind, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client_records WHERE kind=$1 AND id=$2`, kind, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClient(row rowScanner) (*domain.ClientRecord, error) {
	var rec domain.ClientRecord
	var zoneID, zoneName, businessID, businessName, activityID, activityName *string
	if err := row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.Nombre,
		&rec.Telefono,
		&rec.Instagram,
		&rec.AceptaPublicidad,
		&rec.FotoReferencia,
		&zoneID,
		&zoneName,
		&businessID,
		&businessName,
		&activityID,
		&activityName,
		&rec.Status,
		&rec.FotosSubidas,
		&rec.FotografoAsignado,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if zoneID != nil {
		rec.Zone = &domain.ZoneRef{ZoneID: *zoneID, ZoneName: deref(zoneName)}
	}
	if activityID != nil {
		rec.Activity = &domain.ActivityRef{
			BusinessID:   deref(businessID),
			BusinessName: deref(businessName),
			ActivityID:   *activityID,
			ActivityName: deref(activityName),
		}
	}
	return &rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
