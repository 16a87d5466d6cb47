package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	pkgEvents "evcharge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBus struct {
	events []pkgEvents.Event
	err    error
}

func (b *captureBus) Publish(ctx context.Context, e pkgEvents.Event) error {
	b.events = append(b.events, e)
	return b.err
}

func TestBusPublisherSettlementCompletedPayload(t *testing.T) {
	bus := &captureBus{}
	p := NewBusPublisher(bus, logger.NewNopLogger())

	req := &entity.SettlementRequest{
		Id:               uuid.New(),
		Reference:        "STL-01",
		VendorId:         uuid.New(),
		Date:             time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(5000),
		PaymentReference: "TXN123",
	}
	p.PublishSettlementCompleted(context.Background(), req)

	require.Len(t, bus.events, 1)
	evt := bus.events[0]
	assert.Equal(t, SettlementCompleted, evt.EventType())
	assert.Equal(t, "5000.00", evt.Payload()["amount"])
	assert.Equal(t, "2024-01-10", evt.Payload()["date"])
	assert.Equal(t, req.Id.String(), evt.Payload()["entity_id"])
}

func TestBusPublisherSwallowsBusFailure(t *testing.T) {
	bus := &captureBus{err: errors.New("nats down")}
	p := NewBusPublisher(bus, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishVendorVerified(context.Background(), &entity.Vendor{Id: uuid.New()}, "admin-1")
	})
	assert.Len(t, bus.events, 1)
}

func TestBusPublisherWithoutBusIsNoop(t *testing.T) {
	p := NewBusPublisher(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		p.PublishRefundProcessed(context.Background(), &entity.RefundRequest{Id: uuid.New()})
	})
}
