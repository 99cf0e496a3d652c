// Package sqlstore implementa grievances.Repository sobre database/sql.
// Las consultas se escriben con placeholders $n y cada Dialect las adapta.
package sqlstore

import (
	"strings"
	"time"
)

type Dialect struct {
	Name string

	// bindvar reescribe "$n" al formato del driver.
	bindvar func(q string) string
	// timeArg convierte un time.Time al valor que guarda el driver.
	timeArg func(t time.Time) any
	schema  []string
}

// sqliteTimeLayout es de ancho fijo para que el orden lexicográfico
// coincida con el cronológico.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var Postgres = Dialect{
	Name:    "postgres",
	bindvar: func(q string) string { return q },
	timeArg: func(t time.Time) any { return t.UTC() },
	schema: []string{
		`CREATE TABLE IF NOT EXISTS grievances (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL,
			category         TEXT NOT NULL,
			urgency          TEXT NOT NULL,
			latitude         DOUBLE PRECISION NOT NULL,
			longitude        DOUBLE PRECISION NOT NULL,
			address          TEXT NOT NULL DEFAULT '',
			photo_url        TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL CHECK (status IN ('submitted','acknowledged','in-progress','resolved','rejected','duplicate')),
			status_history   JSONB NOT NULL,
			user_id          TEXT NOT NULL,
			user_name        TEXT NOT NULL DEFAULT '',
			user_email       TEXT NOT NULL DEFAULT '',
			user_photo       TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL,
			updated_by       TEXT NOT NULL DEFAULT '',
			updated_by_name  TEXT NOT NULL DEFAULT '',
			admin_notes      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS grievances_user_created_idx ON grievances (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS grievances_created_idx ON grievances (created_at DESC)`,
	},
}

var SQLite = Dialect{
	Name: "sqlite",
	// SQLite acepta ?NNN como parámetro numerado.
	bindvar: func(q string) string { return strings.ReplaceAll(q, "$", "?") },
	timeArg: func(t time.Time) any { return t.UTC().Format(sqliteTimeLayout) },
	schema: []string{
		`CREATE TABLE IF NOT EXISTS grievances (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL,
			category         TEXT NOT NULL,
			urgency          TEXT NOT NULL,
			latitude         REAL NOT NULL,
			longitude        REAL NOT NULL,
			address          TEXT NOT NULL DEFAULT '',
			photo_url        TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL CHECK (status IN ('submitted','acknowledged','in-progress','resolved','rejected','duplicate')),
			status_history   TEXT NOT NULL,
			user_id          TEXT NOT NULL,
			user_name        TEXT NOT NULL DEFAULT '',
			user_email       TEXT NOT NULL DEFAULT '',
			user_photo       TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL,
			updated_by       TEXT NOT NULL DEFAULT '',
			updated_by_name  TEXT NOT NULL DEFAULT '',
			admin_notes      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS grievances_user_created_idx ON grievances (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS grievances_created_idx ON grievances (created_at DESC)`,
	},
}
