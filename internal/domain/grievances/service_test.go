package grievances

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/ports/search"
)

func newSvc(repo *testRepo, bus *fakeBus) *Service {
	opts := Options{Flow: FlowPolicy{Enforce: true}}
	if bus != nil {
		opts.Bus = bus
	}
	svc := NewService(repo, opts)
	svc.now = fixedClock(t0)
	return svc
}

func TestService_Update_PersistsStatusChange(t *testing.T) {
	repo := newTestRepo()
	bus := &fakeBus{}
	svc := newSvc(repo, bus)
	g := seedGrievance(svc, citizen, "Pothole")

	svc.now = fixedClock(t0.Add(time.Hour))
	out, err := svc.Update(context.Background(), staff, g.ID, Change{Status: ptr(status.InProgress), Note: "crew assigned"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	stored := repo.get(g.ID)
	if stored.Status != status.InProgress || len(stored.StatusHistory) != 2 {
		t.Fatalf("store not updated: %+v", stored)
	}
	if out.UpdatedByName != staff.Name {
		t.Fatalf("updatedByName = %q", out.UpdatedByName)
	}
	if bus.count() != 2 { // create + update
		t.Fatalf("expected 2 events, got %d", bus.count())
	}
}

func TestService_Update_StoreFailureLeavesRecordUnchanged(t *testing.T) {
	repo := newTestRepo()
	bus := &fakeBus{}
	svc := newSvc(repo, bus)
	g := seedGrievance(svc, citizen, "Pothole")
	before := bus.count()

	repo.updateErr = errors.New("permission denied")
	_, err := svc.Update(context.Background(), staff, g.ID, Change{Status: ptr(status.Acknowledged)})
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected store error, got %v", err)
	}
	stored := repo.get(g.ID)
	if stored.Status != status.Submitted || len(stored.StatusHistory) != 1 {
		t.Fatalf("record must be unchanged: %+v", stored)
	}
	if bus.count() != before {
		t.Fatalf("no event on failed write")
	}
}

func TestService_Update_SameStatusDoesNotWrite(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	g := seedGrievance(svc, citizen, "Pothole")

	if _, err := svc.Update(context.Background(), staff, g.ID, Change{Status: ptr(status.Submitted)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("no-op change must not hit the store, got %d updates", repo.updates)
	}
}

func TestService_Update_Permissions(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	g := seedGrievance(svc, citizen, "Pothole")

	if _, err := svc.Update(context.Background(), citizen, g.ID, Change{Status: ptr(status.Resolved)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("citizen update should be forbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), staff, "missing", Change{Status: ptr(status.Resolved)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_BulkUpdate_AllOrNothing(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	a := seedGrievance(svc, citizen, "A")
	b := seedGrievance(svc, citizen, "B")
	c := seedGrievance(svc, citizen, "C")

	repo.batchErr = errors.New("transaction aborted")
	_, err := svc.BulkUpdateStatus(context.Background(), staff, BulkStatusChange{
		IDs: []string{a.ID, b.ID, c.ID}, Status: status.Acknowledged,
	})
	if err == nil {
		t.Fatalf("expected batch error")
	}
	for _, id := range []string{a.ID, b.ID, c.ID} {
		if g := repo.get(id); g.Status != status.Submitted || len(g.StatusHistory) != 1 {
			t.Fatalf("%s changed after failed batch: %+v", id, g)
		}
	}
}

func TestService_BulkUpdate_InvalidRecordAbortsBeforeWrite(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	a := seedGrievance(svc, citizen, "A")
	b := seedGrievance(svc, citizen, "B")
	if _, err := svc.Update(context.Background(), staff, b.ID, Change{Status: ptr(status.Resolved)}); err != nil {
		t.Fatalf("seed resolve: %v", err)
	}

	_, err := svc.BulkUpdateStatus(context.Background(), staff, BulkStatusChange{
		IDs: []string{a.ID, b.ID}, Status: status.InProgress,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for resolved record, got %v", err)
	}
	if repo.batches != 0 {
		t.Fatalf("batch must not be attempted")
	}
	if repo.get(a.ID).Status != status.Submitted {
		t.Fatalf("a must be untouched")
	}

	_, err = svc.BulkUpdateStatus(context.Background(), staff, BulkStatusChange{
		IDs: []string{a.ID, "missing"}, Status: status.InProgress,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_BulkUpdate_SkipsSameStatusAndDedupes(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	a := seedGrievance(svc, citizen, "A")
	b := seedGrievance(svc, citizen, "B")
	if _, err := svc.Update(context.Background(), staff, b.ID, Change{Status: ptr(status.Acknowledged)}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.BulkUpdateStatus(context.Background(), staff, BulkStatusChange{
		IDs: []string{a.ID, b.ID, a.ID, " "}, Status: status.Acknowledged,
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if res.Updated != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	ga := repo.get(a.ID)
	if len(ga.StatusHistory) != 2 || ga.StatusHistory[1].Note != "Bulk status update" {
		t.Fatalf("bulk entry mismatch: %+v", ga.StatusHistory)
	}
	if len(repo.get(b.ID).StatusHistory) != 2 {
		t.Fatalf("b already acknowledged; no extra history expected")
	}
}

func TestService_BulkUpdate_Validation(t *testing.T) {
	svc := newSvc(newTestRepo(), nil)
	if _, err := svc.BulkUpdateStatus(context.Background(), citizen, BulkStatusChange{IDs: []string{"x"}, Status: status.Resolved}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("citizen bulk should be forbidden, got %v", err)
	}
	if _, err := svc.BulkUpdateStatus(context.Background(), staff, BulkStatusChange{Status: status.Resolved}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty ids should be invalid, got %v", err)
	}
}

func TestService_DeleteAndBulkDelete(t *testing.T) {
	repo := newTestRepo()
	bus := &fakeBus{}
	svc := newSvc(repo, bus)
	a := seedGrievance(svc, citizen, "A")
	b := seedGrievance(svc, citizen, "B")
	c := seedGrievance(svc, citizen, "C")

	if err := svc.Delete(context.Background(), staff, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff delete should be forbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if _, err := svc.BulkDelete(context.Background(), admin, []string{b.ID, "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), b.ID); err != nil {
		t.Fatalf("b must survive failed bulk delete: %v", err)
	}

	n, err := svc.BulkDelete(context.Background(), admin, []string{b.ID, c.ID})
	if err != nil || n != 2 {
		t.Fatalf("bulk delete: n=%d err=%v", n, err)
	}
}

func TestService_List_Scopes(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo, nil)
	seedGrievance(svc, citizen, "mine")
	other := Actor{ID: "citizen-2", Name: "Other", Role: citizen.Role}
	svc.now = fixedClock(t0.Add(time.Hour))
	seedGrievance(svc, other, "theirs")

	mine, err := svc.List(context.Background(), citizen, ScopeMine)
	if err != nil || len(mine) != 1 || mine[0].UserID != citizen.ID {
		t.Fatalf("mine: %v %v", ids(mine), err)
	}
	all, err := svc.List(context.Background(), citizen, ScopeAll)
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %v %v", ids(all), err)
	}
	if all[0].Title != "theirs" {
		t.Fatalf("snapshot must be newest first")
	}
}

// fakeIndex rankea globalmente según ids y solo después aplica dueño y limit,
// como un motor real.
type fakeIndex struct {
	healthy   bool
	ids       []string
	err       error
	docs      []search.Document
	lastOwner string
}

func (f *fakeIndex) Healthy() bool { return f.healthy }
func (f *fakeIndex) Index(docs ...search.Document) error {
	f.docs = append(f.docs, docs...)
	return nil
}
func (f *fakeIndex) Delete(...string) error { return nil }
func (f *fakeIndex) Search(_ string, owner string, limit int) ([]string, error) {
	f.lastOwner = owner
	if f.err != nil {
		return nil, f.err
	}
	owners := map[string]string{}
	for _, d := range f.docs {
		owners[d.ID] = d.UserID
	}
	out := []string{}
	for _, id := range f.ids {
		if owner != "" && owners[id] != owner {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestService_Search_IndexAndFallback(t *testing.T) {
	repo := newTestRepo()
	idx := &fakeIndex{healthy: true}
	svc := NewService(repo, Options{Index: idx})
	a := seedGrievance(svc, citizen, "Broken streetlight")
	b := seedGrievance(svc, citizen, "Garbage")
	if len(idx.docs) != 2 {
		t.Fatalf("submissions should be indexed, got %d", len(idx.docs))
	}

	idx.ids = []string{b.ID, "unknown", a.ID}
	got, err := svc.Search(context.Background(), citizen, ScopeMine, "anything", 10)
	if err != nil || len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("index result order: %v %v", ids(got), err)
	}

	idx.healthy = false
	got, err = svc.Search(context.Background(), citizen, ScopeMine, "streetlight", 10)
	if err != nil || len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("fallback result: %v %v", ids(got), err)
	}

	if _, err := svc.Search(context.Background(), citizen, ScopeMine, " ", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty query must be rejected")
	}
}

func TestService_Search_MineIsFilteredBeforeLimit(t *testing.T) {
	repo := newTestRepo()
	idx := &fakeIndex{healthy: true}
	svc := NewService(repo, Options{Index: idx})
	neighbour := Actor{ID: "citizen-2", Name: "Priya", Email: "priya@gmail.com", Role: citizen.Role}

	o1 := seedGrievance(svc, neighbour, "Pothole on main road")
	o2 := seedGrievance(svc, neighbour, "Pothole near school")
	o3 := seedGrievance(svc, neighbour, "Pothole by the lake")
	mine := seedGrievance(svc, citizen, "Pothole outside my house")
	idx.ids = []string{o1.ID, o2.ID, o3.ID, mine.ID}

	got, err := svc.Search(context.Background(), citizen, ScopeMine, "pothole", 2)
	if err != nil || len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("own match must survive the limit: %v %v", ids(got), err)
	}
	if idx.lastOwner != citizen.ID {
		t.Fatalf("owner not forwarded to index: %q", idx.lastOwner)
	}

	got, err = svc.Search(context.Background(), staff, ScopeAll, "pothole", 2)
	if err != nil || len(got) != 2 || got[0].ID != o1.ID || idx.lastOwner != "" {
		t.Fatalf("scope all: %v %v owner=%q", ids(got), err, idx.lastOwner)
	}
}
