package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	maxDeliveries = 5
	retryBackoff  = 200 * time.Millisecond
)

// GoChannelBus is an in-process Bus and Subscriber on watermill's gochannel
// pub/sub. It backs single-instance deployments when NATS is unavailable.
type GoChannelBus struct {
	pubSub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
}

func NewGoChannelBus(logger watermill.LoggerAdapter) *GoChannelBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &GoChannelBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *GoChannelBus) Publish(ctx context.Context, event Event) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubSub.Publish(Subject(event.EventType()), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe consumes an exact subject. durableName is accepted for parity
// with the NATS subscriber; gochannel keeps no consumer state.
func (b *GoChannelBus) Subscribe(subject string, durableName string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(b.ctx, subject)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	go func() {
		for msg := range messages {
			event, err := Decode(msg.Payload)
			if err != nil {
				msg.Ack() // malformed payloads are never redeliverable
				continue
			}
			// gochannel redelivers a nacked message immediately and forever,
			// so retries are bounded here and the message is acked afterwards.
			for attempt := 1; attempt <= maxDeliveries; attempt++ {
				if err := handler(msg.Context(), event); err == nil {
					break
				}
				if attempt < maxDeliveries {
					time.Sleep(time.Duration(attempt) * retryBackoff)
				}
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *GoChannelBus) Close() error {
	b.cancel()
	return b.pubSub.Close()
}
