package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/kachelmann-weather/internal/weather"
)

func TestSnapshotStore_EmptyUntilFirstPublish(t *testing.T) {
	s := NewSnapshotStore()

	_, err := s.Latest()
	require.ErrorIs(t, err, ErrNoSnapshot)

	snap := &weather.Snapshot{FetchedAt: time.Now()}
	s.Publish(snap)

	got, err := s.Latest()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestSnapshotStore_ReplacesWholesale(t *testing.T) {
	s := NewSnapshotStore()

	first := &weather.Snapshot{FetchedAt: time.Now().Add(-time.Hour)}
	second := &weather.Snapshot{FetchedAt: time.Now()}

	s.Publish(first)
	s.Publish(second)

	got, err := s.Latest()
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestSnapshotStore_ConcurrentReaders(t *testing.T) {
	s := NewSnapshotStore()
	s.Publish(&weather.Snapshot{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%10 == 0 {
					s.Publish(&weather.Snapshot{FetchedAt: time.Now()})
				}
				snap, err := s.Latest()
				assert.NoError(t, err)
				assert.NotNil(t, snap)
			}
		}()
	}
	wg.Wait()
}
