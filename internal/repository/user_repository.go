package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	// EnsureByEmail returns the user for the given email, creating one when
	// absent. Creation decides the role from committed state: the first user
	// ever inserted becomes admin, everyone else attendee. Signups are
	// serialized by an advisory lock so concurrent first logins cannot race
	// the decision, and duplicate emails collapse via the unique constraint.
	EnsureByEmail(ctx context.Context, email, name string, picture *string) (*domain.User, bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// signupLockID keys the transaction-scoped advisory lock taken around user
// creation.
const signupLockID int64 = 874219

func (r *userRepository) EnsureByEmail(ctx context.Context, email, name string, picture *string) (*domain.User, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The lock serializes signups. Without it, two concurrent first logins
	// could both observe an empty table and both become admin; a losing
	// ON CONFLICT insert must also not be able to disturb the decision for
	// the winner. The EXISTS check reads committed rows only, so the role
	// never depends on side effects of aborted or losing inserts.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, signupLockID); err != nil {
		return nil, false, err
	}

	const query = `
        INSERT INTO users (email, name, picture, role)
        VALUES ($1, $2, $3,
            CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'attendee' ELSE 'admin' END)
        ON CONFLICT (email) DO NOTHING
        RETURNING id, email, name, picture, role, created_at, updated_at`

	var user domain.User
	err = tx.QueryRow(ctx, query, email, name, picture).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return &user, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	// Conflict: the user already exists (possibly inserted a moment ago by a
	// concurrent login). Their committed role stands untouched.
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, name, picture, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, name, picture, role, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, email, name, picture, role, created_at, updated_at
        FROM users ORDER BY created_at ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Picture,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
