package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-grievances/internal/ports/realtime"
)

func TestBus_PublishReachesListeners(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan realtime.Event, 1)
	done := make(chan error, 1)
	go func() { done <- b.Listen(ctx, func(ev realtime.Event) { got <- ev }) }()

	deadline := time.After(2 * time.Second)
	for received := false; !received; {
		_ = b.Publish(context.Background(), realtime.Event{Kind: realtime.KindCreated, IDs: []string{"g-1"}})
		select {
		case ev := <-got:
			if ev.Kind != realtime.KindCreated || ev.IDs[0] != "g-1" {
				t.Fatalf("unexpected event %+v", ev)
			}
			received = true
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("event not delivered")
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("listen returned %v", err)
	}
	b.mu.RLock()
	n := len(b.listeners)
	b.mu.RUnlock()
	if n != 0 {
		t.Fatalf("listener not removed")
	}
}
