package analytics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/forgeworks/repocore/internal/events"
	"go.uber.org/zap"
)

const defaultStalenessWindow = 5 * time.Minute

type Config struct {
	StalenessWindow time.Duration
}

// Cache holds the latest analytics snapshot. Recomputation is rate-limited
// by the staleness window and runs off the caller's execution context; a
// stale snapshot keeps being served while a recompute is in flight.
type Cache struct {
	window time.Duration
	logger *zap.Logger
	bus    *events.Bus

	current atomic.Pointer[Snapshot]

	mu           sync.Mutex
	lastComputed time.Time
	inFlight     bool
}

func NewCache(cfg Config, bus *events.Bus, logger *zap.Logger) *Cache {
	window := cfg.StalenessWindow
	if window <= 0 {
		window = defaultStalenessWindow
	}

	return &Cache{
		window: window,
		logger: logger,
		bus:    bus,
	}
}

// Snapshot returns the latest result, which may be stale or nil. Replacement
// is an atomic pointer swap; readers never observe a torn snapshot.
func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Fresh reports whether the current snapshot is inside the staleness window.
func (c *Cache) Fresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current.Load() != nil && time.Since(c.lastComputed) < c.window
}

// Reset drops the snapshot and the rate limit, forcing the next trigger to
// compute. Called when a repository handle is replaced or released.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current.Store(nil)
	c.lastComputed = time.Time{}
}

// ComputeNow computes synchronously on the caller's context. Used for the
// single analytics pass on open when the cache is empty or stale.
func (c *Cache) ComputeNow(in Input) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	c.compute(in)
}

// Recompute triggers an asynchronous recomputation. The call is a no-op
// inside the staleness window or while another recompute is in flight;
// it reports whether a worker was actually started.
func (c *Cache) Recompute(in Input) bool {
	c.mu.Lock()
	if c.inFlight || time.Since(c.lastComputed) < c.window {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	c.mu.Unlock()

	go c.compute(in)

	return true
}

func (c *Cache) compute(in Input) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("analytics computation failed", zap.Any("panic", r))
			c.mu.Lock()
			c.inFlight = false
			c.mu.Unlock()
		}
	}()

	snap := &Snapshot{
		ComputedAt: time.Now(),
		Metrics:    computeMetrics(in),
	}

	c.mu.Lock()
	c.current.Store(snap)
	c.lastComputed = snap.ComputedAt
	c.inFlight = false
	c.mu.Unlock()

	c.logger.Debug("analytics snapshot computed",
		zap.Int("commits", len(in.Commits)),
		zap.String("branch", in.Branch))

	c.bus.Publish(events.KindAnalyticsReady, *snap)
}
