package service

import (
	"context"
	"fmt"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/mailer"
	"evcharge-be/internal/repository/unitofwork"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/events"

	"github.com/google/uuid"
)

const dispatcherDurable = "vendor-notifications"

var subscriptionHeadlines = map[string]string{
	adminEvents.SubscriptionExtended: "Your subscription was extended",
	adminEvents.SubscriptionUpgraded: "Your plan was upgraded to yearly",
	adminEvents.SubscriptionExpired:  "Your subscription has expired",
}

type INotificationDispatcher interface {
	Start() error
}

// notificationDispatcher turns committed domain events into vendor e-mails.
type notificationDispatcher struct {
	subscriber events.Subscriber
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationDispatcher(
	subscriber events.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	mailer mailer.IEmailService,
	logger logger.ILogger,
) INotificationDispatcher {
	return &notificationDispatcher{
		subscriber: subscriber,
		uowFactory: uowFactory,
		mailer:     mailer,
		logger:     logger,
	}
}

func (d *notificationDispatcher) Start() error {
	routes := map[string]events.Handler{
		adminEvents.VendorVerified:       d.onVendorVerified,
		adminEvents.SettlementCompleted:  d.onSettlementCompleted,
		adminEvents.RefundProcessed:      d.onRefundProcessed,
		adminEvents.SubscriptionExtended: d.onSubscriptionChanged,
		adminEvents.SubscriptionUpgraded: d.onSubscriptionChanged,
		adminEvents.SubscriptionExpired:  d.onSubscriptionChanged,
	}
	for eventType, handler := range routes {
		durable := dispatcherDurable + "-" + eventType
		if err := d.subscriber.Subscribe(events.Subject(eventType), durable, handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}

func (d *notificationDispatcher) onVendorVerified(ctx context.Context, evt events.Event) error {
	data := evt.Payload()
	email, _ := data["email"].(string)
	name, _ := data["business_name"].(string)
	if email == "" {
		return nil
	}
	return d.deliver(evt, email, func() error {
		return d.mailer.SendVendorVerified(email, name)
	})
}

func (d *notificationDispatcher) onSettlementCompleted(ctx context.Context, evt events.Event) error {
	data := evt.Payload()
	vendor, err := d.vendorOf(ctx, data)
	if err != nil || vendor == nil {
		return err
	}
	notice := mailer.SettlementNotice{
		Reference:        str(data["reference"]),
		Date:             str(data["date"]),
		Amount:           str(data["amount"]),
		PaymentReference: str(data["payment_reference"]),
	}
	return d.deliver(evt, vendor.Email, func() error {
		return d.mailer.SendSettlementCompleted(vendor.Email, vendor.BusinessName, notice)
	})
}

func (d *notificationDispatcher) onSubscriptionChanged(ctx context.Context, evt events.Event) error {
	data := evt.Payload()
	vendor, err := d.vendorOf(ctx, data)
	if err != nil || vendor == nil {
		return err
	}
	endDate := str(data["end_date"])
	if t, err := time.Parse(time.RFC3339Nano, endDate); err == nil {
		endDate = t.Format(entity.DateLayout)
	}
	notice := mailer.SubscriptionNotice{
		Headline: subscriptionHeadlines[evt.EventType()],
		PlanType: str(data["type"]),
		EndDate:  endDate,
	}
	return d.deliver(evt, vendor.Email, func() error {
		return d.mailer.SendSubscriptionNotice(vendor.Email, vendor.BusinessName, notice)
	})
}

// Refund recipients are platform users, not vendors; the back office only records the payout.
func (d *notificationDispatcher) onRefundProcessed(ctx context.Context, evt events.Event) error {
	data := evt.Payload()
	d.logger.Info("NOTIFICATION", "Refund payout recorded", map[string]interface{}{
		"refundId":      data["refund_id"],
		"userId":        data["user_id"],
		"amount":        data["amount"],
		"transactionId": data["transaction_id"],
	})
	return nil
}

// vendorOf returns nil without error when the vendor no longer exists, so
// the event is acknowledged instead of redelivered.
func (d *notificationDispatcher) vendorOf(ctx context.Context, data map[string]interface{}) (*entity.Vendor, error) {
	vendorId, err := uuid.Parse(str(data["vendor_id"]))
	if err != nil {
		return nil, nil
	}
	uow := d.uowFactory.NewUnitOfWork(ctx)
	vendor, err := uow.VendorRepository().FindById(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		d.logger.Warn("NOTIFICATION", "Vendor for event not found", map[string]interface{}{
			"vendorId": vendorId.String(),
		})
	}
	return vendor, nil
}

// deliver sends one e-mail. A failed send is returned so the bus redelivers it.
func (d *notificationDispatcher) deliver(evt events.Event, to string, send func() error) error {
	if err := send(); err != nil {
		d.logger.Error("NOTIFICATION", "Failed to send "+evt.EventType()+" email", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return err
	}
	d.logger.Info("NOTIFICATION", "Sent "+evt.EventType()+" email", map[string]interface{}{
		"to": to,
	})
	return nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
