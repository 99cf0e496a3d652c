package realtime

import (
	"context"
	"time"
)

const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Event avisa que el store confirmó una escritura.
type Event struct {
	Kind string    `json:"kind"`
	IDs  []string  `json:"ids"`
	At   time.Time `json:"at"`
}

// Bus distribuye eventos entre instancias. Listen bloquea hasta que ctx termina.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Listen(ctx context.Context, fn func(Event)) error
}
