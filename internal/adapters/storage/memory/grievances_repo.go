package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"civic-grievances/internal/domain/grievances"

	"github.com/google/uuid"
)

type grievanceRepo struct {
	mu   sync.RWMutex
	byID map[string]grievances.Grievance
}

func NewGrievanceRepo() grievances.Repository {
	return &grievanceRepo{
		byID: make(map[string]grievances.Grievance),
	}
}

func (r *grievanceRepo) Create(ctx context.Context, g grievances.Grievance) (grievances.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	if _, exists := r.byID[g.ID]; exists {
		return grievances.Grievance{}, errors.New("grievance already exists")
	}
	r.byID[g.ID] = g.Clone()
	return g.Clone(), nil
}

func (r *grievanceRepo) GetByID(ctx context.Context, id string) (grievances.Grievance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return grievances.Grievance{}, grievances.ErrNotFound
	}
	return g.Clone(), nil
}

func (r *grievanceRepo) Update(ctx context.Context, g grievances.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[g.ID]; !exists {
		return grievances.ErrNotFound
	}
	r.byID[g.ID] = g.Clone()
	return nil
}

// BatchUpdate valida todo antes de escribir; con el lock tomado es atómico.
func (r *grievanceRepo) BatchUpdate(ctx context.Context, gs []grievances.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range gs {
		if _, exists := r.byID[g.ID]; !exists {
			return grievances.ErrNotFound
		}
	}
	for _, g := range gs {
		r.byID[g.ID] = g.Clone()
	}
	return nil
}

func (r *grievanceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return grievances.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *grievanceRepo) BatchDelete(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, exists := r.byID[id]; !exists {
			return grievances.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(r.byID, id)
	}
	return nil
}

func (r *grievanceRepo) List(ctx context.Context, q grievances.Query) ([]grievances.Grievance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]grievances.Grievance, 0, len(r.byID))
	for _, g := range r.byID {
		if q.OwnerID != "" && g.UserID != q.OwnerID {
			continue
		}
		out = append(out, g.Clone())
	}

	// created_at desc; id como desempate para que el orden sea estable
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
