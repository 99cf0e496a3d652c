// Package local es el bus en proceso, para una sola instancia de la API.
package local

import (
	"context"
	"sync"

	"civic-grievances/internal/ports/realtime"
)

type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(realtime.Event)
}

func New() *Bus {
	return &Bus{listeners: map[int]func(realtime.Event){}}
}

// Publish entrega el evento de forma síncrona a los listeners activos.
func (b *Bus) Publish(_ context.Context, ev realtime.Event) error {
	b.mu.RLock()
	fns := make([]func(realtime.Event), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

func (b *Bus) Listen(ctx context.Context, fn func(realtime.Event)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
	return ctx.Err()
}
