package redisbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-grievances/internal/ports/realtime"

	"github.com/alicebob/miniredis/v2"
)

func TestBus_PublishAndListen(t *testing.T) {
	s := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := New(ctx, "redis://"+s.Addr(), "", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer bus.Close()

	got := make(chan realtime.Event, 8)
	done := make(chan error, 1)
	go func() { done <- bus.Listen(ctx, func(ev realtime.Event) { got <- ev }) }()

	// la suscripción es asíncrona: se republica hasta recibir
	deadline := time.After(3 * time.Second)
	sent := realtime.Event{Kind: realtime.KindUpdated, IDs: []string{"a", "b"}, At: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	for received := false; !received; {
		if err := bus.Publish(ctx, sent); err != nil {
			t.Fatalf("publish: %v", err)
		}
		select {
		case ev := <-got:
			if ev.Kind != sent.Kind || len(ev.IDs) != 2 || !ev.At.Equal(sent.At) {
				t.Fatalf("unexpected event %+v", ev)
			}
			received = true
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("event not received")
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("listen returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("listen did not stop")
	}
}

func TestNew_BadURL(t *testing.T) {
	if _, err := New(context.Background(), "://nope", "", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
