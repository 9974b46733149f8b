package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// PoolConfig tunes the connection pool opened by Open.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Open creates a pool for dsn and pings it.
func Open(ctx context.Context, dsn string, pc PoolConfig) (*pgxpool.Pool, error) {
	const op = "postgres.Open"

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg.MaxConns = 10
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	cfg.MinConns = 2
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL,
		avatar     JSONB,
		courses    JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id         TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		purchased  INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS layouts (
		id   TEXT PRIMARY KEY,
		type TEXT NOT NULL UNIQUE,
		doc  JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS identities_created_at_idx ON identities (created_at)`,
	`CREATE INDEX IF NOT EXISTS courses_created_at_idx ON courses (created_at)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at)`,
	`CREATE INDEX IF NOT EXISTS notifications_created_at_idx ON notifications (created_at DESC)`,
}

// Migrate creates the tables and indexes if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "postgres.Migrate"

	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// mapError translates driver errors into learnhub sentinels.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, learnhub.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, learnhub.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireRow turns a zero rows-affected update into ErrNotFound.
func requireRow(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, learnhub.ErrNotFound)
	}
	return nil
}

func count(ctx context.Context, db DB, op, table string, from, to time.Time) (int, error) {
	var n int
	err := db.QueryRow(ctx,
		"SELECT count(*) FROM "+table+" WHERE created_at >= $1 AND created_at < $2",
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, mapError(op, err)
	}
	return n, nil
}
