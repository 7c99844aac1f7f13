// Package memory provides an in-process SnapshotStore for tests and for
// running the screener without a database.
package memory

import (
	"context"
	"sync"

	"tokenScope/internal/model"
	"tokenScope/internal/storage"
)

// Store keeps snapshots in memory. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	snapshots []model.Snapshot
	nextID    int64
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Begin opens a staging batch.
func (s *Store) Begin(_ context.Context) (storage.Batch, error) {
	return &memBatch{store: s}, nil
}

// All returns a copy of the full history.
func (s *Store) All(_ context.Context) ([]model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out, nil
}

type memBatch struct {
	store   *Store
	pending []model.Snapshot
}

func (b *memBatch) Add(snapshot model.Snapshot) {
	b.pending = append(b.pending, snapshot)
}

func (b *memBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, snap := range b.pending {
		snap.ID = b.store.nextID
		b.store.nextID++
		b.store.snapshots = append(b.store.snapshots, snap)
	}
	b.pending = nil
	return nil
}

func (b *memBatch) Rollback(_ context.Context) error {
	b.pending = nil
	return nil
}
