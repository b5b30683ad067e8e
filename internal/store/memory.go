package store

import (
	"errors"
	"sync"

	"github.com/i474232898/kachelmann-weather/internal/weather"
)

// ErrNoSnapshot is returned when reading before the first refresh has
// published anything.
var ErrNoSnapshot = errors.New("no weather snapshot published yet")

// SnapshotStore holds the latest published snapshot, nothing older.
// Snapshots are immutable once published, so readers share the pointer;
// the lock only guards the handle swap.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *weather.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish replaces the current snapshot wholesale. Readers holding the
// previous snapshot keep a consistent view until they re-read.
func (s *SnapshotStore) Publish(snap *weather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Latest returns the most recently published snapshot.
func (s *SnapshotStore) Latest() (*weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return s.snapshot, nil
}
