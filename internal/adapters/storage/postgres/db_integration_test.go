//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"civic-grievances/internal/adapters/storage/postgres"
	"civic-grievances/internal/adapters/storage/storetest"
	"civic-grievances/internal/domain/grievances"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestGrievancesRepo_Postgres(t *testing.T) {
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("grievances"),
		tcpostgres.WithUsername("grievances"),
		tcpostgres.WithPassword("grievances"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	db, err := postgres.Open(ctx, dsn, postgres.Options{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	storetest.Run(t, func(t *testing.T) grievances.Repository {
		repo, err := postgres.NewGrievancesRepo(ctx, db)
		if err != nil {
			t.Fatalf("repo: %v", err)
		}
		if _, err := db.ExecContext(ctx, `TRUNCATE TABLE grievances`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return repo
	})
}
