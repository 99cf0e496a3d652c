package grievances

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/platform/metrics"
	"civic-grievances/internal/ports/photos"
	"civic-grievances/internal/ports/realtime"
	"civic-grievances/internal/ports/search"
)

const (
	DefaultMaxPhotoBytes = 5 << 20

	initialNote = "initial submission"
	bulkNote    = "Bulk status update"
)

// Options son los colaboradores opcionales del servicio. Todos pueden ser nil.
type Options struct {
	Photos        photos.Store
	Bus           realtime.Bus
	Index         search.Index
	Logger        logger.Logger
	Metrics       *metrics.Metrics
	Flow          FlowPolicy
	MaxPhotoBytes int64
}

type Service struct {
	repo     Repository
	photos   photos.Store
	bus      realtime.Bus
	index    search.Index
	log      logger.Logger
	metrics  *metrics.Metrics
	flow     FlowPolicy
	maxPhoto int64
	now      func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	maxPhoto := opts.MaxPhotoBytes
	if maxPhoto <= 0 {
		maxPhoto = DefaultMaxPhotoBytes
	}
	return &Service{
		repo:     repo,
		photos:   opts.Photos,
		bus:      opts.Bus,
		index:    opts.Index,
		log:      l.With(logger.Fields{"module": "grievances"}),
		metrics:  opts.Metrics,
		flow:     opts.Flow,
		maxPhoto: maxPhoto,
		now:      time.Now,
	}
}

func (s *Service) logger(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, s.log)
}

// Scope elige qué snapshot ve el actor.
type Scope string

const (
	ScopeMine Scope = "mine"
	ScopeAll  Scope = "all"
)

func ParseScope(raw string) (Scope, bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ScopeMine:
		return ScopeMine, true
	case ScopeAll:
		return ScopeAll, true
	default:
		return "", false
	}
}

func (s *Service) queryFor(actor Actor, scope Scope) (Query, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return Query{}, invalid("actor", "missing identity")
	}
	if !actor.Can(roles.ActionView) {
		return Query{}, ErrForbidden
	}
	if scope == ScopeAll {
		return Query{}, nil
	}
	return Query{OwnerID: actor.ID}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Grievance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Grievance{}, invalid("id", "required")
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve el snapshot ordenado por CreatedAt desc.
func (s *Service) List(ctx context.Context, actor Actor, scope Scope) ([]Grievance, error) {
	q, err := s.queryFor(actor, scope)
	if err != nil {
		return nil, err
	}
	gs, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	return gs, nil
}

// Update aplica un cambio de ciclo de vida. Si el store falla, el error se
// devuelve y no se publica nada.
func (s *Service) Update(ctx context.Context, actor Actor, id string, ch Change) (Grievance, error) {
	if !actor.Can(roles.ActionUpdate) {
		return Grievance{}, ErrForbidden
	}
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return Grievance{}, err
	}

	next, modified, err := Apply(cur, ch, actor, s.now(), s.flow)
	if err != nil {
		return Grievance{}, err
	}
	if !modified {
		return cur, nil
	}

	if err := s.repo.Update(ctx, next); err != nil {
		s.logger(ctx).Error("grievance update failed", logger.Fields{"id": cur.ID, "err": err})
		return Grievance{}, fmt.Errorf("update grievance %s: %w", cur.ID, err)
	}

	if next.Status != cur.Status {
		s.metrics.StatusTransition(string(cur.Status), string(next.Status))
		s.logger(ctx).Info("grievance status changed", logger.Fields{
			"id": cur.ID, "from": cur.Status, "to": next.Status, "by": actor.ID,
		})
	}
	s.publish(ctx, realtime.KindUpdated, next.ID)
	s.reindex(ctx, next)
	return next, nil
}

type BulkStatusChange struct {
	IDs    []string
	Status status.Status
	Note   string
	Force  bool
}

type BulkResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// BulkUpdateStatus valida todos los registros antes de escribir y los persiste
// en un solo batch atómico. Los que ya están en el estado destino se saltean.
func (s *Service) BulkUpdateStatus(ctx context.Context, actor Actor, in BulkStatusChange) (res BulkResult, err error) {
	defer func() { s.metrics.BulkWrite("update-status", err) }()

	if !actor.Can(roles.ActionBulk) {
		return BulkResult{}, ErrForbidden
	}
	ids := uniqueIDs(in.IDs)
	if len(ids) == 0 {
		return BulkResult{}, invalid("ids", "at least one id is required")
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = bulkNote
	}

	now := s.now()
	target := in.Status
	batch := make([]Grievance, 0, len(ids))
	from := make([]status.Status, 0, len(ids))
	for _, id := range ids {
		cur, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return BulkResult{}, fmt.Errorf("bulk %s: %w", id, err)
		}
		next, modified, err := Apply(cur, Change{Status: &target, Note: note, Force: in.Force}, actor, now, s.flow)
		if err != nil {
			return BulkResult{}, fmt.Errorf("bulk %s: %w", id, err)
		}
		if !modified {
			res.Skipped++
			continue
		}
		batch = append(batch, next)
		from = append(from, cur.Status)
	}

	if len(batch) == 0 {
		return res, nil
	}
	if err := s.repo.BatchUpdate(ctx, batch); err != nil {
		s.logger(ctx).Error("bulk status update failed", logger.Fields{"count": len(batch), "err": err})
		return BulkResult{}, fmt.Errorf("bulk update: %w", err)
	}

	res.Updated = len(batch)
	updated := make([]string, 0, len(batch))
	for i, g := range batch {
		s.metrics.StatusTransition(string(from[i]), string(g.Status))
		updated = append(updated, g.ID)
	}
	s.logger(ctx).Info("bulk status update", logger.Fields{"status": target, "updated": res.Updated, "skipped": res.Skipped, "by": actor.ID})
	s.publish(ctx, realtime.KindUpdated, updated...)
	s.reindex(ctx, batch...)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Can(roles.ActionDelete) {
		return ErrForbidden
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("id", "required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete grievance %s: %w", id, err)
	}
	s.logger(ctx).Info("grievance deleted", logger.Fields{"id": id, "by": actor.ID})
	s.publish(ctx, realtime.KindDeleted, id)
	s.unindex(ctx, id)
	return nil
}

// BulkDelete borra todos o ninguno.
func (s *Service) BulkDelete(ctx context.Context, actor Actor, ids []string) (n int, err error) {
	defer func() { s.metrics.BulkWrite("delete", err) }()

	if !actor.Can(roles.ActionDelete) {
		return 0, ErrForbidden
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, invalid("ids", "at least one id is required")
	}
	if err := s.repo.BatchDelete(ctx, ids); err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	s.logger(ctx).Info("bulk delete", logger.Fields{"count": len(ids), "by": actor.ID})
	s.publish(ctx, realtime.KindDeleted, ids...)
	s.unindex(ctx, ids...)
	return len(ids), nil
}

// publish se llama solo después de que el store confirmó la escritura.
func (s *Service) publish(ctx context.Context, kind string, ids ...string) {
	if s.bus == nil {
		return
	}
	ev := realtime.Event{Kind: kind, IDs: ids, At: s.now()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger(ctx).Warn("change event not published", logger.Fields{"kind": kind, "err": err})
	}
}

func (s *Service) reindex(ctx context.Context, gs ...Grievance) {
	if s.index == nil || len(gs) == 0 {
		return
	}
	docs := make([]search.Document, 0, len(gs))
	for _, g := range gs {
		docs = append(docs, ToDocument(g))
	}
	if err := s.index.Index(docs...); err != nil {
		s.logger(ctx).Warn("search index update failed", logger.Fields{"count": len(docs), "err": err})
	}
}

func (s *Service) unindex(ctx context.Context, ids ...string) {
	if s.index == nil {
		return
	}
	if err := s.index.Delete(ids...); err != nil {
		s.logger(ctx).Warn("search index delete failed", logger.Fields{"count": len(ids), "err": err})
	}
}

// ToDocument proyecta un reclamo al documento indexable.
func ToDocument(g Grievance) search.Document {
	return search.Document{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Category:    string(g.Category),
		Status:      string(g.Status),
		Urgency:     string(g.Urgency),
		UserID:      g.UserID,
		UserName:    g.UserName,
		Address:     g.Location.Address,
		CreatedAt:   g.CreatedAt.Unix(),
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
