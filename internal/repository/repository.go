package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/create_tables.up.sql
var migrateUpSQL string

//go:embed migrations/create_tables.down.sql
var migrateDownSQL string

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	pool DB
}

func New(pool DB) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) MigrateUp(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, migrateUpSQL); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func (r *Repository) MigrateDown(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, migrateDownSQL); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
