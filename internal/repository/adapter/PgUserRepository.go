package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

// PgUserRepository reads display data from the users table.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	avatar_url   TEXT NOT NULL DEFAULT '',
	user_type    TEXT NOT NULL DEFAULT '',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the users table when it does not exist yet.
func (r *PgUserRepository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	if _, err := r.pool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("postgres: create users table: %w", err)
	}
	return nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	const q = `SELECT id, display_name, avatar_url, user_type FROM users WHERE id = $1`
	var u repository.User
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.DisplayName, &u.AvatarURL, &u.UserType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) Save(ctx context.Context, u *repository.User) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	if u == nil || u.ID == "" {
		return errors.New("PgUserRepository: user id is required")
	}
	const q = `
INSERT INTO users (id, display_name, avatar_url, user_type)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	avatar_url   = EXCLUDED.avatar_url,
	user_type    = EXCLUDED.user_type,
	updated_at   = now()`
	_, err := r.pool.Exec(ctx, q, u.ID, u.DisplayName, u.AvatarURL, u.UserType)
	return err
}
