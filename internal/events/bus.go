package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

type subscriber struct {
	ch    chan Event
	kinds map[Kind]struct{}
}

// Bus delivers typed notifications from the repository core to its
// collaborators. Publishing never blocks the publisher: events for a
// subscriber whose buffer is full are dropped and logged.
type Bus struct {
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[uuid.UUID]*subscriber
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[uuid.UUID]*subscriber),
	}
}

// Subscribe registers interest in the given kinds (all kinds when empty).
// The returned cancel function is idempotent and closes the channel.
func (b *Bus) Subscribe(kinds ...Kind) (<-chan Event, func()) {
	sub := &subscriber{
		ch: make(chan Event, subscriberBuffer),
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}

	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Publish sends an event to every matching subscriber.
func (b *Bus) Publish(kind Kind, payload any) {
	evt := Event{
		ID:      uuid.New(),
		Kind:    kind,
		At:      time.Now(),
		Payload: payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.kinds != nil {
			if _, ok := sub.kinds[kind]; !ok {
				continue
			}
		}

		select {
		case sub.ch <- evt:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				zap.String("kind", string(kind)))
		}
	}
}

// PublishOperation is a convenience wrapper for operation results.
func (b *Bus) PublishOperation(operation string, success bool, message string) {
	b.Publish(KindOperationCompleted, OperationCompleted{
		Operation: operation,
		Success:   success,
		Message:   message,
	})
}
