// Package sqlite abre la base embebida usada en desarrollo y tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"civic-grievances/internal/adapters/storage/sqlstore"

	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

const Memory = ":memory:"

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Open usa una sola conexión: SQLite serializa escrituras y así ":memory:"
// conserva la misma base entre consultas.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = Memory
	}
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	stmts := pragmas
	if path != Memory {
		stmts = append(stmts, "PRAGMA journal_mode = WAL")
	}
	for _, p := range stmts {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", p, err)
		}
	}
	return db, nil
}

func NewGrievancesRepo(ctx context.Context, db *sql.DB) (*sqlstore.Repo, error) {
	if err := sqlstore.Migrate(ctx, db, sqlstore.SQLite); err != nil {
		return nil, err
	}
	return sqlstore.NewRepo(db, sqlstore.SQLite), nil
}
