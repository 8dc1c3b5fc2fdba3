package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBus_PublishAndSubscribe(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	ch, cancel := bus.Subscribe(KindStatusChanged)
	defer cancel()

	bus.Publish(KindStatusChanged, nil)

	select {
	case evt := <-ch:
		assert.Equal(t, KindStatusChanged, evt.Kind)
		assert.False(t, evt.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestBus_KindFiltering(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	ch, cancel := bus.Subscribe(KindCommitsChanged)
	defer cancel()

	bus.Publish(KindStatusChanged, nil)
	bus.Publish(KindCommitsChanged, nil)

	evt := <-ch
	assert.Equal(t, KindCommitsChanged, evt.Kind)
	assert.Empty(t, ch)
}

func TestBus_SubscribeAllKinds(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.PublishOperation("commit", true, "committed")

	evt := <-ch
	require.Equal(t, KindOperationCompleted, evt.Kind)

	payload, ok := evt.Payload.(OperationCompleted)
	require.True(t, ok)
	assert.Equal(t, "commit", payload.Operation)
	assert.True(t, payload.Success)
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	_, cancel := bus.Subscribe(KindStatusChanged)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overflow the subscriber buffer; Publish must not block.
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Publish(KindStatusChanged, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBus_CancelIsIdempotent(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	_, cancel := bus.Subscribe()
	cancel()
	cancel() // must not panic

	// Publishing after cancellation must not panic either.
	bus.Publish(KindStatusChanged, nil)
}
