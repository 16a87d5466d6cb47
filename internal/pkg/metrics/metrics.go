package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	// Ledger metrics
	BookingsCreditedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evcharge_bookings_credited_total",
			Help: "Completed bookings credited to vendor ledgers",
		},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_settlements_total",
			Help: "Settlement requests by lifecycle step",
		},
		[]string{"step"}, // initiated, completed
	)

	SettledAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evcharge_settled_amount_total",
			Help: "Sum of completed settlement amounts",
		},
	)

	// Refund queue metrics
	RefundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_refunds_total",
			Help: "Refund requests by resulting status",
		},
		[]string{"status"},
	)

	// Subscription lifecycle metrics
	SubscriptionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_subscription_transitions_total",
			Help: "Vendor subscription and station premium transitions by event",
		},
		[]string{"event"},
	)

	SubscriptionsExpiringSoon = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evcharge_subscriptions_expiring_soon",
			Help: "Active vendor subscriptions ending inside the warning window",
		},
	)

	ExpirySweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_expiry_sweeps_total",
			Help: "Expiry monitor outcomes per subscription",
		},
		[]string{"outcome"}, // expired, conflict, failed
	)

	// Transport metrics
	DomainErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_domain_errors_total",
			Help: "Rejected operations by error kind",
		},
		[]string{"kind"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evcharge_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func RecordSettlementInitiated() {
	SettlementsTotal.WithLabelValues("initiated").Inc()
}

func RecordSettlementCompleted(amount decimal.Decimal) {
	SettlementsTotal.WithLabelValues("completed").Inc()
	SettledAmountTotal.Add(amount.InexactFloat64())
}

func RecordRefund(status string) {
	RefundsTotal.WithLabelValues(status).Inc()
}

func RecordTransition(event string) {
	SubscriptionTransitionsTotal.WithLabelValues(event).Inc()
}

func RecordDomainError(kind string) {
	if kind == "" {
		kind = "INTERNAL"
	}
	DomainErrorsTotal.WithLabelValues(kind).Inc()
}

// Middleware observes request latency keyed by the matched route pattern so
// path parameters do not explode label cardinality.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		RequestDurationSeconds.
			WithLabelValues(ctx.Method(), ctx.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
