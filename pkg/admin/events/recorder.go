package events

import (
	"context"
	"sync"

	"evcharge-be/internal/entity"
)

// Recorded is one captured publish call.
type Recorded struct {
	Type     string
	EntityId string
	Actor    string
	Reason   string
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Recorded) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) PublishVendorVerified(ctx context.Context, vendor *entity.Vendor, actor string) {
	r.add(Recorded{Type: VendorVerified, EntityId: vendor.Id.String(), Actor: actor})
}

func (r *Recorder) PublishSettlementCompleted(ctx context.Context, req *entity.SettlementRequest) {
	r.add(Recorded{Type: SettlementCompleted, EntityId: req.Id.String(), Actor: req.CompletedBy})
}

func (r *Recorder) PublishRefundProcessed(ctx context.Context, refund *entity.RefundRequest) {
	r.add(Recorded{Type: RefundProcessed, EntityId: refund.Id.String(), Actor: refund.ProcessedBy})
}

func (r *Recorder) PublishSubscriptionChanged(ctx context.Context, eventType string, sub *entity.VendorSubscription, actor, reason string) {
	r.add(Recorded{Type: eventType, EntityId: sub.Id.String(), Actor: actor, Reason: reason})
}

func (r *Recorder) PublishStationPremiumChanged(ctx context.Context, eventType string, station *entity.Station, actor, reason string) {
	r.add(Recorded{Type: eventType, EntityId: station.Id.String(), Actor: actor, Reason: reason})
}
