// Package meili implementa search.Index sobre Meilisearch.
package meili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/search"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	IndexUID = "grievances"

	healthInterval = 10 * time.Second
	syncTimeout    = 30 * time.Second
)

var ErrUnhealthy = errors.New("meilisearch unhealthy")

// Loader devuelve todos los documentos de la fuente de verdad.
type Loader func(ctx context.Context) ([]search.Document, error)

// Index mantiene un chequeo de salud en segundo plano. Solo se considera
// sano cuando Meilisearch responde y el contenido está sincronizado con el
// store; mientras tanto las búsquedas fallan rápido y el servicio usa el
// filtro local.
type Index struct {
	client meili.ServiceManager
	log    logger.Logger
	load   Loader

	reachable atomic.Bool
	synced    atomic.Bool

	mu      sync.Mutex
	deleted map[string]struct{} // bajas perdidas mientras no estaba sincronizado

	done chan struct{}
	once sync.Once
}

// New conecta con Meilisearch. load puede ser nil; en ese caso no hay
// backfill y el índice se da por sincronizado al configurarlo.
func New(url, apiKey string, l logger.Logger, load Loader) *Index {
	return newIndex(url, apiKey, l, load, healthInterval)
}

func newIndex(url, apiKey string, l logger.Logger, load Loader, every time.Duration) *Index {
	if l == nil {
		l = logger.Nop()
	}
	ix := &Index{
		client:  meili.New(url, meili.WithAPIKey(apiKey)),
		log:     l.With(logger.Fields{"module": "meili"}),
		load:    load,
		deleted: map[string]struct{}{},
		done:    make(chan struct{}),
	}

	if _, err := ix.client.Health(); err != nil {
		ix.log.Warn("meilisearch unavailable", logger.Fields{"url": url, "err": err})
	} else {
		ix.reachable.Store(true)
		ix.configure()
		ix.resync()
	}

	go ix.healthLoop(every)
	return ix
}

func (ix *Index) configure() {
	if _, err := ix.client.CreateIndex(&meili.IndexConfig{Uid: IndexUID, PrimaryKey: "id"}); err != nil {
		ix.log.Debug("create index (may already exist)", logger.Fields{"err": err})
	}
	index := ix.client.Index(IndexUID)

	filterable := []interface{}{"category", "status", "urgency", "userId"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		ix.log.Warn("update filterable attributes", logger.Fields{"err": err})
	}
	searchable := []string{"title", "description", "userName", "address"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		ix.log.Warn("update searchable attributes", logger.Fields{"err": err})
	}
}

// resync vuelca el store completo y repite las bajas pendientes.
func (ix *Index) resync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	index := ix.client.Index(IndexUID)

	ix.mu.Lock()
	pending := make([]string, 0, len(ix.deleted))
	for id := range ix.deleted {
		pending = append(pending, id)
	}
	ix.mu.Unlock()
	for _, id := range pending {
		if _, err := index.DeleteDocument(id, nil); err != nil {
			ix.log.Warn("replay delete failed", logger.Fields{"id": id, "err": err})
			return
		}
		ix.mu.Lock()
		delete(ix.deleted, id)
		ix.mu.Unlock()
	}

	if ix.load != nil {
		docs, err := ix.load(ctx)
		if err != nil {
			ix.log.Warn("backfill load failed", logger.Fields{"err": err})
			return
		}
		if len(docs) > 0 {
			if _, err := index.AddDocuments(docs, nil); err != nil {
				ix.log.Warn("backfill push failed", logger.Fields{"count": len(docs), "err": err})
				return
			}
		}
		ix.log.Info("search index backfilled", logger.Fields{"count": len(docs)})
	}
	ix.synced.Store(true)
}

func (ix *Index) healthLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ix.done:
			return
		case <-ticker.C:
			_, err := ix.client.Health()
			was := ix.reachable.Load()
			ix.reachable.Store(err == nil)
			if err != nil {
				continue
			}
			if !was {
				ix.log.Info("meilisearch recovered, reconfiguring index", nil)
				ix.configure()
			}
			if !ix.synced.Load() {
				ix.resync()
			}
		}
	}
}

func (ix *Index) Close() {
	ix.once.Do(func() { close(ix.done) })
}

func (ix *Index) Healthy() bool {
	return ix.reachable.Load() && ix.synced.Load()
}

// Index falla si Meilisearch no responde; el documento se recupera en el
// próximo resync.
func (ix *Index) Index(docs ...search.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if !ix.reachable.Load() {
		ix.synced.Store(false)
		return ErrUnhealthy
	}
	if _, err := ix.client.Index(IndexUID).AddDocuments(docs, nil); err != nil {
		ix.synced.Store(false)
		return err
	}
	return nil
}

func (ix *Index) Delete(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if !ix.reachable.Load() {
		ix.forget(ids)
		return ErrUnhealthy
	}
	index := ix.client.Index(IndexUID)
	for i, id := range ids {
		if _, err := index.DeleteDocument(id, nil); err != nil {
			ix.forget(ids[i:])
			return err
		}
	}
	return nil
}

func (ix *Index) forget(ids []string) {
	ix.mu.Lock()
	for _, id := range ids {
		ix.deleted[id] = struct{}{}
	}
	ix.mu.Unlock()
	ix.synced.Store(false)
}

// Search devuelve los ids por relevancia. ownerID no vacío restringe a los
// reclamos de ese usuario antes de aplicar limit.
func (ix *Index) Search(query, ownerID string, limit int) ([]string, error) {
	if !ix.Healthy() {
		return nil, ErrUnhealthy
	}
	if limit <= 0 {
		limit = 20
	}

	sr := &meili.SearchRequest{
		IndexUID:             IndexUID,
		Query:                query,
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	}
	if ownerID != "" {
		sr.Filter = []string{fmt.Sprintf("userId = %q", ownerID)}
	}

	resp, err := ix.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: []*meili.SearchRequest{sr},
	})
	if err != nil {
		ix.reachable.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	var ids []string
	for _, res := range resp.Results {
		for _, hit := range res.Hits {
			raw, ok := hit["id"]
			if !ok {
				continue
			}
			var id string
			if err := json.Unmarshal(raw, &id); err == nil && id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
