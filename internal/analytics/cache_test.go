package analytics

import (
	"testing"
	"time"

	"github.com/forgeworks/repocore/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T, window time.Duration) (*Cache, *events.Bus) {
	t.Helper()

	bus := events.NewBus(zaptest.NewLogger(t))
	cache := NewCache(Config{StalenessWindow: window}, bus, zaptest.NewLogger(t))

	return cache, bus
}

func waitForSnapshot(t *testing.T, cache *Cache) *Snapshot {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := cache.Snapshot(); snap != nil {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("snapshot was never published")
	return nil
}

func TestCache_ComputeNowPublishesSnapshot(t *testing.T) {
	cache, bus := newTestCache(t, time.Minute)

	ch, cancel := bus.Subscribe(events.KindAnalyticsReady)
	defer cancel()

	cache.ComputeNow(Input{Branch: "main", Commits: sampleCommits()})

	snap := cache.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Metrics[MetricTotalCommits])
	assert.True(t, cache.Fresh())

	select {
	case evt := <-ch:
		published, ok := evt.Payload.(Snapshot)
		require.True(t, ok)
		assert.Equal(t, snap.ComputedAt, published.ComputedAt)
	case <-time.After(time.Second):
		t.Fatal("analyticsReady notification was not published")
	}
}

func TestCache_RecomputeIsRateLimitedInsideWindow(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	cache.ComputeNow(Input{Branch: "main"})
	first := cache.Snapshot()
	require.NotNil(t, first)

	// Inside the staleness window the trigger must be a no-op.
	started := cache.Recompute(Input{Branch: "main", Commits: sampleCommits()})
	assert.False(t, started)
	assert.Same(t, first, cache.Snapshot())
}

func TestCache_RecomputesAfterWindowExpires(t *testing.T) {
	cache, _ := newTestCache(t, 30*time.Millisecond)

	cache.ComputeNow(Input{Branch: "main"})
	first := cache.Snapshot()
	require.NotNil(t, first)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, cache.Fresh())

	started := cache.Recompute(Input{Branch: "main", Commits: sampleCommits()})
	require.True(t, started)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := cache.Snapshot(); snap != first {
			assert.Equal(t, 3, snap.Metrics[MetricTotalCommits])
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("snapshot was not replaced after the staleness window expired")
}

func TestCache_StaleSnapshotServedWhileRecomputing(t *testing.T) {
	cache, _ := newTestCache(t, time.Nanosecond)

	cache.ComputeNow(Input{Branch: "main"})
	stale := cache.Snapshot()
	require.NotNil(t, stale)

	cache.Recompute(Input{Branch: "main", Commits: sampleCommits()})

	// Whatever the worker's progress, a reader always gets a full snapshot.
	got := cache.Snapshot()
	require.NotNil(t, got)
	require.NotNil(t, got.Metrics[MetricTotalCommits])

	waitForSnapshot(t, cache)
}

func TestCache_ResetForcesNextCompute(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	cache.ComputeNow(Input{Branch: "main"})
	require.NotNil(t, cache.Snapshot())

	cache.Reset()
	assert.Nil(t, cache.Snapshot())
	assert.False(t, cache.Fresh())

	started := cache.Recompute(Input{Branch: "feature"})
	assert.True(t, started)
	snap := waitForSnapshot(t, cache)
	assert.Equal(t, "feature", snap.Metrics[MetricActiveBranch])
}
