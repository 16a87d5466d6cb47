package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeKeepsTypeAndTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	raw, err := Encode(BaseEvent{
		Type:       "SETTLEMENT_COMPLETED",
		Data:       map[string]interface{}{"vendor_id": "v-1"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	evt, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "SETTLEMENT_COMPLETED", evt.EventType())
	assert.True(t, at.Equal(evt.Timestamp()))
	assert.Equal(t, "v-1", evt.Payload()["vendor_id"])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.VENDOR_VERIFIED", Subject("VENDOR_VERIFIED"))
}

func TestGoChannelBusDeliversToSubscriber(t *testing.T) {
	bus := NewGoChannelBus(watermill.NopLogger{})
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(Subject("REFUND_PROCESSED"), "test", func(ctx context.Context, e Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), BaseEvent{
		Type:       "REFUND_PROCESSED",
		Data:       map[string]interface{}{"refund_id": "r-1"},
		OccurredAt: time.Now(),
	}))

	select {
	case e := <-received:
		assert.Equal(t, "REFUND_PROCESSED", e.EventType())
		assert.Equal(t, "r-1", e.Payload()["refund_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestGoChannelBusStopsRetryingAfterMaxDeliveries(t *testing.T) {
	bus := NewGoChannelBus(watermill.NopLogger{})
	defer bus.Close()

	var attempts int32
	exhausted := make(chan struct{})
	require.NoError(t, bus.Subscribe(Subject("SETTLEMENT_COMPLETED"), "test", func(ctx context.Context, e Event) error {
		if atomic.AddInt32(&attempts, 1) == maxDeliveries {
			close(exhausted)
		}
		return errors.New("smtp unavailable")
	}))

	require.NoError(t, bus.Publish(context.Background(), BaseEvent{
		Type:       "SETTLEMENT_COMPLETED",
		Data:       map[string]interface{}{},
		OccurredAt: time.Now(),
	}))

	select {
	case <-exhausted:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not retried")
	}
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(maxDeliveries), atomic.LoadInt32(&attempts))
}
