package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const uniqueViolation = "23505"

// DBTX is the subset of database/sql used by the repository. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository implements ports.UserRepository on the users table. Roles are
// stored as a space-delimited string.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const selectUser = `SELECT id, username, password_hash, roles, enabled FROM users`

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE username = $1`, username))
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var (
			u     domain.User
			roles string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &roles, &u.Enabled); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.Roles = domain.ParseRoles(roles)
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved := user.Clone()

	if saved.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO users (username, password_hash, roles, enabled)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			saved.Username, saved.PasswordHash, saved.Roles.String(), saved.Enabled,
		).Scan(&saved.ID)
		if err != nil {
			return nil, translate(err)
		}
		return saved, nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = $1, password_hash = $2, roles = $3, enabled = $4
		 WHERE id = $5`,
		saved.Username, saved.PasswordHash, saved.Roles.String(), saved.Enabled, saved.ID,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u     domain.User
		roles string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &roles, &u.Enabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Roles = domain.ParseRoles(roles)
	return &u, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrUserExists
	}
	return fmt.Errorf("db error: %w", err)
}
