package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/mailer"
	"evcharge-be/internal/repository/memory"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	kind string
	to   string
	body interface{}
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failures int
}

func (m *fakeMailer) record(kind, to string, body interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, body: body})
	return nil
}

func (m *fakeMailer) SendVendorVerified(to, name string) error {
	return m.record("verified", to, name)
}

func (m *fakeMailer) SendSettlementCompleted(to, name string, s mailer.SettlementNotice) error {
	return m.record("settlement", to, s)
}

func (m *fakeMailer) SendSubscriptionNotice(to, name string, n mailer.SubscriptionNotice) error {
	return m.record("subscription", to, n)
}

func (m *fakeMailer) snapshot() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type dispatcherFixture struct {
	publisher *adminEvents.BusPublisher
	mailer    *fakeMailer
	vendor    *entity.Vendor
}

func newDispatcherFixture(t *testing.T, failures int) *dispatcherFixture {
	t.Helper()
	bus := events.NewGoChannelBus(watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	factory := memory.NewStore().RepositoryFactory()
	vendor := &entity.Vendor{Id: uuid.New(), BusinessName: "Volt Hub", Email: "ops@volthub.test"}
	require.NoError(t, factory.NewUnitOfWork(context.Background()).VendorRepository().Create(context.Background(), vendor))

	fake := &fakeMailer{failures: failures}
	require.NoError(t, NewNotificationDispatcher(bus, factory, fake, logger.NewNopLogger()).Start())

	return &dispatcherFixture{
		publisher: adminEvents.NewBusPublisher(bus, logger.NewNopLogger()),
		mailer:    fake,
		vendor:    vendor,
	}
}

func TestDispatcherMailsVendorOnSettlementCompleted(t *testing.T) {
	f := newDispatcherFixture(t, 0)

	f.publisher.PublishSettlementCompleted(context.Background(), &entity.SettlementRequest{
		Id:               uuid.New(),
		Reference:        "STL-TEST",
		VendorId:         f.vendor.Id,
		Date:             time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.RequireFromString("99.50"),
		PaymentReference: "TRX-1",
	})

	require.Eventually(t, func() bool { return len(f.mailer.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	mail := f.mailer.snapshot()[0]
	assert.Equal(t, "settlement", mail.kind)
	assert.Equal(t, "ops@volthub.test", mail.to)
	notice := mail.body.(mailer.SettlementNotice)
	assert.Equal(t, "2024-01-10", notice.Date)
	assert.Equal(t, "99.50", notice.Amount)
}

func TestDispatcherRetriesFailedSends(t *testing.T) {
	f := newDispatcherFixture(t, 1)

	f.publisher.PublishVendorVerified(context.Background(), f.vendor, "admin-1")

	require.Eventually(t, func() bool { return len(f.mailer.snapshot()) == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, "verified", f.mailer.snapshot()[0].kind)
}

func TestDispatcherSkipsUnknownVendor(t *testing.T) {
	f := newDispatcherFixture(t, 0)

	f.publisher.PublishSubscriptionChanged(context.Background(), adminEvents.SubscriptionExpired, &entity.VendorSubscription{
		Id:       uuid.New(),
		VendorId: uuid.New(),
		Type:     entity.SubscriptionTypeTrial,
		Status:   entity.SubscriptionStatusExpired,
	}, "system", "")
	f.publisher.PublishSubscriptionChanged(context.Background(), adminEvents.SubscriptionUpgraded, &entity.VendorSubscription{
		Id:       uuid.New(),
		VendorId: f.vendor.Id,
		Type:     entity.SubscriptionTypeYearly,
		Status:   entity.SubscriptionStatusActive,
		EndDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}, "admin-1", "")

	require.Eventually(t, func() bool { return len(f.mailer.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	notice := f.mailer.snapshot()[0].body.(mailer.SubscriptionNotice)
	assert.Equal(t, "Your plan was upgraded to yearly", notice.Headline)
	assert.Equal(t, "2025-01-10", notice.EndDate)
}
