package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civic-grievances/internal/adapters/storage/sqlstore"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Options struct {
	MaxOpenConns int
	PingTimeout  time.Duration
}

// Open abre un pool a Postgres usando pgx (database/sql) y verifica la conexión.
func Open(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// NewGrievancesRepo migra el esquema y devuelve el repositorio.
func NewGrievancesRepo(ctx context.Context, db *sql.DB) (*sqlstore.Repo, error) {
	if err := sqlstore.Migrate(ctx, db, sqlstore.Postgres); err != nil {
		return nil, err
	}
	return sqlstore.NewRepo(db, sqlstore.Postgres), nil
}
