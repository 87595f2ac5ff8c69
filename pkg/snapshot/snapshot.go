// Package snapshot persists point-in-time copies of store state under a
// single fixed logical key. A backend is best-effort durable storage: the
// in-memory store never blocks on it and treats it as a cache of last
// resort at startup.
package snapshot

import (
	"context"

	"taskstore/pkg/task"
)

// DefaultKey is the logical slot name backends use unless configured
// otherwise. Only one snapshot ever exists per key; every save overwrites.
const DefaultKey = "tasks"

// Store is the contract for snapshot persistence.
type Store interface {
	// Load returns the previously saved state, or (nil, nil) if no
	// snapshot has ever been saved. A stored value that fails to parse
	// is returned as an error; callers are expected to fall back to an
	// empty default rather than fail.
	Load(ctx context.Context) (*task.State, error)

	// Save serializes st and stores it, overwriting any prior snapshot.
	Save(ctx context.Context, st task.State) error

	// EnsureSchema prepares the backend (table, directory) if needed.
	// Idempotent.
	EnsureSchema(ctx context.Context) error
}
