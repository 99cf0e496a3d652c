package grievances

import (
	"context"
	"errors"
	"sync"
	"time"

	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/platform/metrics"
	"civic-grievances/internal/ports/realtime"
)

// Feed entrega snapshots completos a suscriptores: uno inicial y uno nuevo
// después de cada evento de cambio. Los avisos se coalescen por suscriptor,
// así que un consumidor lento recibe el último estado y no una cola.
type Feed struct {
	repo    Repository
	bus     realtime.Bus
	log     logger.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber

	retryMin, retryMax time.Duration
}

const (
	listenRetryMin = 500 * time.Millisecond
	listenRetryMax = 30 * time.Second
)

type subscriber struct {
	q     Query
	fn    func([]Grievance)
	dirty chan struct{}
	done  chan struct{}
	exit  chan struct{}
	once  sync.Once
}

func NewFeed(repo Repository, bus realtime.Bus, l logger.Logger, m *metrics.Metrics) *Feed {
	if l == nil {
		l = logger.Nop()
	}
	return &Feed{
		repo:    repo,
		bus:     bus,
		log:     l.With(logger.Fields{"module": "feed"}),
		metrics: m,
		subs:    map[int]*subscriber{},

		retryMin: listenRetryMin,
		retryMax: listenRetryMax,
	}
}

// Run escucha el bus hasta que ctx termina. Si Listen falla se reintenta con
// backoff exponencial; al reconectar se refresca a todos los suscriptores por
// los eventos que pudieron perderse.
func (f *Feed) Run(ctx context.Context) error {
	if f.bus == nil {
		<-ctx.Done()
		return nil
	}
	wait := f.retryMin
	for {
		started := time.Now()
		err := f.bus.Listen(ctx, func(realtime.Event) { f.Notify() })
		if ctx.Err() != nil {
			return nil
		}
		if err == nil || errors.Is(err, context.Canceled) {
			err = errors.New("listener closed")
		}
		if time.Since(started) > f.retryMax {
			wait = f.retryMin
		}
		f.log.Warn("change listener stopped, retrying", logger.Fields{"err": err, "in": wait.String()})

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		wait = min(wait*2, f.retryMax)
		f.Notify()
	}
}

// Notify marca a todos los suscriptores para refrescar.
func (f *Feed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		select {
		case s.dirty <- struct{}{}:
		default:
		}
	}
}

// Subscribe entrega el snapshot inicial de forma asíncrona y devuelve la
// función para cancelar. Después de que unsubscribe retorna no hay más
// callbacks; no debe llamarse desde dentro de fn.
func (f *Feed) Subscribe(ctx context.Context, q Query, fn func([]Grievance)) (func(), error) {
	if fn == nil {
		return nil, invalid("subscriber", "callback required")
	}
	s := &subscriber{
		q:     q,
		fn:    fn,
		dirty: make(chan struct{}, 1),
		done:  make(chan struct{}),
		exit:  make(chan struct{}),
	}
	s.dirty <- struct{}{}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = s
	f.mu.Unlock()
	f.metrics.SubscriberAdded()

	go f.loop(ctx, s)

	unsubscribe := func() {
		s.once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(s.done)
			<-s.exit
			f.metrics.SubscriberRemoved()
		})
	}
	return unsubscribe, nil
}

func (f *Feed) loop(ctx context.Context, s *subscriber) {
	defer close(s.exit)
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-s.dirty:
		}

		snap, err := f.repo.List(ctx, s.q)
		if err != nil {
			f.log.Warn("snapshot refresh failed", logger.Fields{"owner": s.q.OwnerID, "err": err})
			continue
		}

		select {
		case <-s.done:
			return
		default:
			s.fn(snap)
		}
	}
}

// Subscribers para diagnóstico/tests.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
