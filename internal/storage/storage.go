// Package storage defines the append-only snapshot repository.
package storage

import (
	"context"

	"tokenScope/internal/model"
)

// Batch stages snapshots for an all-or-nothing commit. A batch that is not
// committed must be rolled back.
type Batch interface {
	Add(snapshot model.Snapshot)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SnapshotStore persists admitted snapshots. The store is append-only: no
// update or delete operations exist.
type SnapshotStore interface {
	Begin(ctx context.Context) (Batch, error)
	All(ctx context.Context) ([]model.Snapshot, error)
}
