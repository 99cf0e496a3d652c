package grievances

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/ports/photos"
	"civic-grievances/internal/ports/realtime"
)

// testRepo: implementación mínima en memoria con fallas inyectables.
type testRepo struct {
	mu    sync.Mutex
	items map[string]Grievance
	seq   int

	createErr error
	updateErr error
	batchErr  error
	listErr   error

	creates int
	updates int
	batches int
}

func newTestRepo() *testRepo {
	return &testRepo{items: map[string]Grievance{}}
}

func (r *testRepo) Create(_ context.Context, g Grievance) (Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return Grievance{}, r.createErr
	}
	if g.ID == "" {
		r.seq++
		g.ID = fmt.Sprintf("g-%d", r.seq)
	}
	r.items[g.ID] = g.Clone()
	return g.Clone(), nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return Grievance{}, ErrNotFound
	}
	return g.Clone(), nil
}

func (r *testRepo) Update(_ context.Context, g Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[g.ID]; !ok {
		return ErrNotFound
	}
	r.items[g.ID] = g.Clone()
	return nil
}

func (r *testRepo) BatchUpdate(_ context.Context, gs []Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	if r.batchErr != nil {
		return r.batchErr
	}
	for _, g := range gs {
		if _, ok := r.items[g.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, g := range gs {
		r.items[g.ID] = g.Clone()
	}
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *testRepo) BatchDelete(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.items[id]; !ok {
			return ErrNotFound
		}
	}
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func (r *testRepo) List(_ context.Context, q Query) ([]Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []Grievance{}
	for _, g := range r.items {
		if q.OwnerID != "" && g.UserID != q.OwnerID {
			continue
		}
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) get(id string) Grievance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Clone()
}

type fakePhotos struct {
	mu    sync.Mutex
	calls int
	err   error
	got   photos.File
}

func (f *fakePhotos) Upload(_ context.Context, owner string, file photos.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = file
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + photos.KeyPrefix + "/" + owner + ".jpg", nil
}

type fakeBus struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (b *fakeBus) Publish(_ context.Context, ev realtime.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *fakeBus) Listen(ctx context.Context, _ func(realtime.Event)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (b *fakeBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

var (
	citizen = Actor{ID: "citizen-1", Name: "Ravi Kumar", Email: "ravi@gmail.com", Role: roles.Citizen}
	staff   = Actor{ID: "staff-1", Name: "GHMC Officer", Email: "officer@ghmc.gov.in", Role: roles.MunicipalStaff}
	admin   = Actor{ID: "admin-1", Email: "admin@hyvoice.com", Role: roles.Administrator}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }

// seedGrievance crea un reclamo ya persistido vía Submit.
func seedGrievance(svc *Service, actor Actor, title string) Grievance {
	res, err := svc.Submit(context.Background(), actor, SubmitInput{
		Title:       title,
		Description: "description of " + title,
		Category:    CategoryPothole,
		Urgency:     UrgencyMedium,
		Latitude:    ptr(17.4474),
		Longitude:   ptr(78.3762),
	})
	if err != nil {
		panic(err)
	}
	return res.Grievance
}
