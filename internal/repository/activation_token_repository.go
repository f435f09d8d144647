package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fotosexpress/portal/internal/domain"
)

// ActivationTokenRepository manages one-time account activation tokens.
type ActivationTokenRepository interface {
	Create(ctx context.Context, token *domain.ActivationToken) error
	GetByToken(ctx context.Context, token string) (*domain.ActivationToken, error)
	// Redeem consumes the token and activates its account with passwordHash in
	// one unit: either both change or neither does. A consumed token or an
	// already active account yields ErrStaleState.
	Redeem(ctx context.Context, token, passwordHash string, at time.Time) error
	DeleteByStaff(ctx context.Context, staffID string) error
}

type activationTokenRepository struct {
	pool *pgxpool.Pool
}

// NewActivationTokenRepository constructs repository.
func NewActivationTokenRepository(pool *pgxpool.Pool) ActivationTokenRepository {
	return &activationTokenRepository{pool: pool}
}

func (r *activationTokenRepository) Create(ctx context.Context, token *domain.ActivationToken) error {
	const query = `
        INSERT INTO activation_tokens (token, staff_id, email, nombre, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		token.Token,
		token.StaffID,
		token.Email,
		token.Nombre,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
}

func (r *activationTokenRepository) GetByToken(ctx context.Context, tokenStr string) (*domain.ActivationToken, error) {
	const query = `
        SELECT token, staff_id, email, nombre, expires_at, used_at, created_at
        FROM activation_tokens WHERE token=$1`
	var token domain.ActivationToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.Token,
		&token.StaffID,
		&token.Email,
		&token.Nombre,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &token, nil
}

func (r *activationTokenRepository) Redeem(ctx context.Context, tokenStr, passwordHash string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var staffID string
	err = tx.QueryRow(ctx, `
        UPDATE activation_tokens SET used_at=$1
        WHERE token=$2 AND used_at IS NULL
        RETURNING staff_id`, at, tokenStr).Scan(&staffID)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.GetByToken(ctx, tokenStr); err != nil {
			return err
		}
		return ErrStaleState
	}
	if err != nil {
		return err
	}

	var active bool
	err = tx.QueryRow(ctx, `SELECT is_active FROM staff_users WHERE id=$1 FOR UPDATE`, staffID).Scan(&active)
	if err != nil {
		return mapNoRows(err)
	}
	if active {
		return ErrStaleState
	}
	if _, err := tx.Exec(ctx, `
        UPDATE staff_users SET password_hash=$1, is_active=TRUE, updated_at=NOW()
        WHERE id=$2`, passwordHash, staffID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *activationTokenRepository) DeleteByStaff(ctx context.Context, staffID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activation_tokens WHERE staff_id=$1`, staffID)
	return err
}
