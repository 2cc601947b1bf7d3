package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/faultline/internal/users/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGINT PRIMARY KEY,
	email      TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT users_email_key UNIQUE (email)
)`

type PostgresConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// PostgresStore keeps users in PostgreSQL. Driver failures are returned
// untouched so unique violations and missing rows keep their SQLSTATE.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and makes sure the users table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		config.MinConns = cfg.MinConns
	}
	config.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate users: %w", err)
	}

	slog.InfoContext(ctx, "postgres connection pool established", "dsn", maskDSN(cfg.DSN))

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, user entity.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (entity.User, error) {
	var user entity.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return entity.User{}, err
	}

	return user, nil
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]entity.User, int, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, errNegativeWindow
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, email, name, created_at, updated_at FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		var user entity.User
		err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
		return user, err
	})
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *PostgresStore) Update(ctx context.Context, user entity.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET email = $2, name = $3, updated_at = $4 WHERE id = $1`,
		user.ID, user.Email, user.Name, user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// maskDSN hides the password of a URL-style DSN. Key/value DSNs are not
// logged at all.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "[redacted]"
	}
	return u.Redacted()
}
