package grievances

import (
	"context"
	"strings"

	"civic-grievances/internal/platform/logger"
)

const defaultSearchLimit = 20

// Search usa el índice si está sano; si no, filtra el snapshot en memoria.
// En ambos casos solo devuelve reclamos visibles para el scope del actor; con
// scope mine el índice filtra por dueño antes de cortar en limit.
func (s *Service) Search(ctx context.Context, actor Actor, scope Scope, query string, limit int) ([]Grievance, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "required")
	}
	if limit <= 0 || limit > 200 {
		limit = defaultSearchLimit
	}

	q, err := s.queryFor(actor, scope)
	if err != nil {
		return nil, err
	}
	snap, err := s.List(ctx, actor, scope)
	if err != nil {
		return nil, err
	}

	if s.index != nil && s.index.Healthy() {
		ids, err := s.index.Search(query, q.OwnerID, limit)
		if err == nil {
			return pickByID(snap, ids, limit), nil
		}
		s.logger(ctx).Warn("search index unavailable, using snapshot filter", logger.Fields{"err": err})
	}

	out := Filter{Search: query}.Apply(snap)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// pickByID respeta el orden de relevancia de ids.
func pickByID(snap []Grievance, ids []string, limit int) []Grievance {
	byID := make(map[string]Grievance, len(snap))
	for _, g := range snap {
		byID[g.ID] = g
	}
	out := make([]Grievance, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
