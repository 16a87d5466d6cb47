package events

import (
	"context"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	pkgEvents "evcharge-be/pkg/events"
)

const (
	VendorVerified            = "VENDOR_VERIFIED"
	SettlementCompleted       = "SETTLEMENT_COMPLETED"
	RefundProcessed           = "REFUND_PROCESSED"
	SubscriptionExtended      = "SUBSCRIPTION_EXTENDED"
	SubscriptionModified      = "SUBSCRIPTION_MODIFIED"
	SubscriptionUpgraded      = "SUBSCRIPTION_UPGRADED"
	SubscriptionExpired       = "SUBSCRIPTION_EXPIRED"
	StationPremiumActivated   = "STATION_PREMIUM_ACTIVATED"
	StationPremiumExtended    = "STATION_PREMIUM_EXTENDED"
	StationPremiumDeactivated = "STATION_PREMIUM_DEACTIVATED"
)

// Publisher is the notification collaborator. Callers invoke it only after
// the transition has committed; implementations never return errors.
type Publisher interface {
	PublishVendorVerified(ctx context.Context, vendor *entity.Vendor, actor string)
	PublishSettlementCompleted(ctx context.Context, req *entity.SettlementRequest)
	PublishRefundProcessed(ctx context.Context, refund *entity.RefundRequest)
	PublishSubscriptionChanged(ctx context.Context, eventType string, sub *entity.VendorSubscription, actor, reason string)
	PublishStationPremiumChanged(ctx context.Context, eventType string, station *entity.Station, actor, reason string)
}

// BusPublisher implements Publisher on a pkg/events Bus (NATS or gochannel).
type BusPublisher struct {
	bus    pkgEvents.Bus
	logger logger.ILogger
}

func NewBusPublisher(bus pkgEvents.Bus, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{
		bus:    bus,
		logger: logger,
	}
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		return
	}

	now := time.Now()
	data["occurred_at"] = now
	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{
			"error":     err.Error(),
			"entity_id": data["entity_id"],
		})
	}
}

func (p *BusPublisher) PublishVendorVerified(ctx context.Context, vendor *entity.Vendor, actor string) {
	p.publish(ctx, VendorVerified, map[string]interface{}{
		"vendor_id":     vendor.Id.String(),
		"business_name": vendor.BusinessName,
		"email":         vendor.Email,
		"verified_by":   actor,
		"entity_type":   "vendor",
		"entity_id":     vendor.Id.String(),
	})
}

func (p *BusPublisher) PublishSettlementCompleted(ctx context.Context, req *entity.SettlementRequest) {
	p.publish(ctx, SettlementCompleted, map[string]interface{}{
		"settlement_id":     req.Id.String(),
		"reference":         req.Reference,
		"vendor_id":         req.VendorId.String(),
		"date":              req.Date.Format(entity.DateLayout),
		"amount":            req.Amount.StringFixed(2),
		"payment_reference": req.PaymentReference,
		"entity_type":       "settlement_request",
		"entity_id":         req.Id.String(),
	})
}

func (p *BusPublisher) PublishRefundProcessed(ctx context.Context, refund *entity.RefundRequest) {
	p.publish(ctx, RefundProcessed, map[string]interface{}{
		"refund_id":      refund.Id.String(),
		"user_id":        refund.UserId.String(),
		"booking_id":     refund.BookingId.String(),
		"amount":         refund.Calculation.FinalRefundAmount.StringFixed(2),
		"transaction_id": refund.TransactionId,
		"entity_type":    "refund",
		"entity_id":      refund.Id.String(),
	})
}

func (p *BusPublisher) PublishSubscriptionChanged(ctx context.Context, eventType string, sub *entity.VendorSubscription, actor, reason string) {
	p.publish(ctx, eventType, map[string]interface{}{
		"vendor_id":    sub.VendorId.String(),
		"type":         string(sub.Type),
		"status":       string(sub.Status),
		"end_date":     sub.EndDate,
		"max_stations": sub.MaxStations,
		"actor":        actor,
		"reason":       reason,
		"entity_type":  "vendor_subscription",
		"entity_id":    sub.Id.String(),
	})
}

func (p *BusPublisher) PublishStationPremiumChanged(ctx context.Context, eventType string, station *entity.Station, actor, reason string) {
	data := map[string]interface{}{
		"station_id":  station.Id.String(),
		"vendor_id":   station.VendorId.String(),
		"is_active":   station.Premium.IsActive,
		"actor":       actor,
		"reason":      reason,
		"entity_type": "station",
		"entity_id":   station.Id.String(),
	}
	if station.Premium.Type != nil {
		data["type"] = string(*station.Premium.Type)
	}
	if station.Premium.EndDate != nil {
		data["end_date"] = *station.Premium.EndDate
	}
	p.publish(ctx, eventType, data)
}
