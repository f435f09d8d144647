package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// StaffUserRepository handles persistence for staff accounts.
type StaffUserRepository interface {
	Create(ctx context.Context, user *domain.StaffUser) error
	GetByID(ctx context.Context, id string) (*domain.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	List(ctx context.Context, filter StaffUserFilter) ([]domain.StaffUser, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// StaffUserFilter defines query params for staff listing.
type StaffUserFilter struct {
	Role   *domain.StaffRole
	Active *bool
}

type staffUserRepository struct {
	pool *pgxpool.Pool
}

// NewStaffUserRepository instantiates the repository.
func NewStaffUserRepository(pool *pgxpool.Pool) StaffUserRepository {
	return &staffUserRepository{pool: pool}
}

const staffUserColumns = `id, application_id, nombre, email, telefono, password_hash, role, is_active, created_at, updated_at`

func (r *staffUserRepository) Create(ctx context.Context, user *domain.StaffUser) error {
	const query = `
        INSERT INTO staff_users (id, application_id, nombre, email, telefono, password_hash, role, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.ApplicationID,
		user.Nombre,
		strings.ToLower(user.Email),
		user.Telefono,
		user.PasswordHash,
		user.Role,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapUnique(err)
}

func (r *staffUserRepository) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	query := `SELECT ` + staffUserColumns + ` FROM staff_users WHERE id=$1`
	user, err := scanStaffUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (r *staffUserRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	query := `SELECT ` + staffUserColumns + ` FROM staff_users WHERE email=$1`
	user, err := scanStaffUser(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (r *staffUserRepository) List(ctx context.Context, filter StaffUserFilter) ([]domain.StaffUser, error) {
	query := `SELECT ` + staffUserColumns + ` FROM staff_users`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
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

	var result []domain.StaffUser
	for rows.Next() {
		user, err := scanStaffUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *staffUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE staff_users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffUserRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStaffUser(row rowScanner) (*domain.StaffUser, error) {
	var user domain.StaffUser
	if err := row.Scan(
		&user.ID,
		&user.ApplicationID,
		&user.Nombre,
		&user.Email,
		&user.Telefono,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
