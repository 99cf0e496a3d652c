// Package storetest tiene los casos comunes que cualquier grievances.Repository
// debe pasar (memoria, sqlite, postgres).
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-grievances/internal/domain/grievances"
	"civic-grievances/internal/domain/status"
)

// Run ejecuta la suite; newRepo debe devolver un store vacío en cada llamada.
func Run(t *testing.T, newRepo func(t *testing.T) grievances.Repository) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newRepo(t)) })
	t.Run("UpdateRoundTrip", func(t *testing.T) { testUpdate(t, newRepo(t)) })
	t.Run("ListOrderAndOwner", func(t *testing.T) { testList(t, newRepo(t)) })
	t.Run("BatchUpdateAtomic", func(t *testing.T) { testBatchUpdate(t, newRepo(t)) })
	t.Run("BatchDeleteAtomic", func(t *testing.T) { testBatchDelete(t, newRepo(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newRepo(t)) })
}

var base = time.Date(2025, 3, 15, 10, 30, 0, 123456000, time.UTC)

func sample(user string, created time.Time) grievances.Grievance {
	return grievances.Grievance{
		Title:       "Deep pothole",
		Description: `Near "Cyber Towers"`,
		Category:    grievances.CategoryPothole,
		Urgency:     grievances.UrgencyHigh,
		Location:    grievances.Location{Latitude: 17.4474, Longitude: 78.3762, Address: "HITEC City"},
		Status:      status.Submitted,
		StatusHistory: []grievances.StatusChange{
			{Status: status.Submitted, Timestamp: created, By: user, ByName: "Ravi", Note: "initial submission"},
		},
		UserID:    user,
		UserName:  "Ravi",
		UserEmail: "ravi@gmail.com",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func create(t *testing.T, repo grievances.Repository, g grievances.Grievance) grievances.Grievance {
	t.Helper()
	out, err := repo.Create(context.Background(), g)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("create must assign an id")
	}
	return out
}

func testCreateAndGet(t *testing.T, repo grievances.Repository) {
	g := create(t, repo, sample("u1", base))

	got, err := repo.GetByID(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != g.Title || got.Description != g.Description || got.Location != g.Location {
		t.Fatalf("fields mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, base)
	}
	if len(got.StatusHistory) != 1 || got.StatusHistory[0].Note != "initial submission" || !got.StatusHistory[0].Timestamp.Equal(base) {
		t.Fatalf("history mismatch: %+v", got.StatusHistory)
	}
}

func testUpdate(t *testing.T, repo grievances.Repository) {
	ctx := context.Background()
	g := create(t, repo, sample("u1", base))

	later := base.Add(time.Hour)
	g.Status = status.InProgress
	g.StatusHistory = append(g.StatusHistory, grievances.StatusChange{Status: status.InProgress, Timestamp: later, By: "staff-1", ByName: "Officer"})
	g.UpdatedAt = later
	g.UpdatedBy = "staff-1"
	g.UpdatedByName = "Officer"
	g.AdminNotes = "crew assigned"
	if err := repo.Update(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != status.InProgress || len(got.StatusHistory) != 2 || got.AdminNotes != "crew assigned" {
		t.Fatalf("update not persisted: %+v", got)
	}
	if !got.UpdatedAt.Equal(later) || got.UpdatedByName != "Officer" {
		t.Fatalf("audit fields not persisted: %+v", got)
	}
}

func testList(t *testing.T, repo grievances.Repository) {
	ctx := context.Background()
	create(t, repo, sample("u1", base))
	create(t, repo, sample("u2", base.Add(time.Hour)))
	newest := create(t, repo, sample("u1", base.Add(2*time.Hour)))

	all, err := repo.List(ctx, grievances.Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != newest.ID {
		t.Fatalf("expected newest first, got %d items", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("list not ordered by createdAt desc")
		}
	}

	mine, err := repo.List(ctx, grievances.Query{OwnerID: "u1"})
	if err != nil {
		t.Fatalf("list owner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 for u1, got %d", len(mine))
	}
	for _, g := range mine {
		if g.UserID != "u1" {
			t.Fatalf("owner filter leaked %s", g.UserID)
		}
	}
}

func testBatchUpdate(t *testing.T, repo grievances.Repository) {
	ctx := context.Background()
	a := create(t, repo, sample("u1", base))
	b := create(t, repo, sample("u1", base))

	a.Status, b.Status = status.Acknowledged, status.Acknowledged
	ghost := sample("u1", base)
	ghost.ID = "does-not-exist"

	if err := repo.BatchUpdate(ctx, []grievances.Grievance{a, ghost, b}); !errors.Is(err, grievances.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		got, _ := repo.GetByID(ctx, id)
		if got.Status != status.Submitted {
			t.Fatalf("%s updated by failed batch", id)
		}
	}

	if err := repo.BatchUpdate(ctx, []grievances.Grievance{a, b}); err != nil {
		t.Fatalf("batch update: %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		got, _ := repo.GetByID(ctx, id)
		if got.Status != status.Acknowledged {
			t.Fatalf("%s not updated", id)
		}
	}
}

func testBatchDelete(t *testing.T, repo grievances.Repository) {
	ctx := context.Background()
	a := create(t, repo, sample("u1", base))
	b := create(t, repo, sample("u1", base))

	if err := repo.BatchDelete(ctx, []string{a.ID, "does-not-exist"}); !errors.Is(err, grievances.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); err != nil {
		t.Fatalf("a deleted by failed batch: %v", err)
	}
	if err := repo.BatchDelete(ctx, []string{a.ID, b.ID}); err != nil {
		t.Fatalf("batch delete: %v", err)
	}
	all, _ := repo.List(ctx, grievances.Query{})
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func testNotFound(t *testing.T, repo grievances.Repository) {
	ctx := context.Background()
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, grievances.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	g := sample("u1", base)
	g.ID = "missing"
	if err := repo.Update(ctx, g); !errors.Is(err, grievances.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, grievances.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
}
