package repo

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Monitor polls the open repository for working tree changes on a fixed
// interval. Ticks that land while a repository operation holds the service
// lock are skipped rather than queued.
type Monitor struct {
	interval time.Duration
	check    func()
	logger   *zap.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewMonitor(interval time.Duration, check func(), logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	return &Monitor{interval: interval, check: check, logger: logger}
}

// Start launches the polling loop. Calling Start on a running monitor is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
	m.logger.Info("change monitor started", zap.Duration("interval", m.interval))
}

// Stop halts the polling loop and waits for the in-flight tick, if any, to
// finish. Calling Stop on a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	m.logger.Info("change monitor stopped")
}

func (m *Monitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.check()
		}
	}
}
