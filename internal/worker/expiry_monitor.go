package worker

import (
	"context"
	"time"

	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/metrics"
	"evcharge-be/internal/repository/unitofwork"
	"evcharge-be/pkg/admin/subscription"
)

// SweepResult summarises one pass of the expiry monitor.
type SweepResult struct {
	Expired      int
	Conflicts    int
	Failed       int
	ExpiringSoon int64
}

// ExpiryMonitor periodically persists the expired status of vendor
// subscriptions whose end date has passed.
type ExpiryMonitor struct {
	uowFactory       unitofwork.RepositoryFactory
	manager          *subscription.Manager
	logger           logger.ILogger
	interval         time.Duration
	expiringSoonDays int
	now              func() time.Time
}

func NewExpiryMonitor(uowFactory unitofwork.RepositoryFactory, manager *subscription.Manager, logger logger.ILogger, interval time.Duration, expiringSoonDays int) *ExpiryMonitor {
	return &ExpiryMonitor{
		uowFactory:       uowFactory,
		manager:          manager,
		logger:           logger,
		interval:         interval,
		expiringSoonDays: expiringSoonDays,
		now:              time.Now,
	}
}

func (m *ExpiryMonitor) WithClock(now func() time.Time) *ExpiryMonitor {
	m.now = now
	return m
}

// Run sweeps once immediately and then every interval until ctx is done.
func (m *ExpiryMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("WORKER", "Expiry monitor started", map[string]interface{}{
		"interval": m.interval.String(),
	})
	for {
		if _, err := m.Sweep(ctx); err != nil {
			m.logger.Error("WORKER", "Expiry sweep failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		select {
		case <-ctx.Done():
			m.logger.Info("WORKER", "Expiry monitor stopped", nil)
			return
		case <-ticker.C:
		}
	}
}

// Sweep expires every lapsed subscription in its own transaction. A
// subscription edited concurrently is skipped; the next sweep sees it again
// if it is still lapsed.
func (m *ExpiryMonitor) Sweep(ctx context.Context) (*SweepResult, error) {
	now := m.now()
	uow := m.uowFactory.NewUnitOfWork(ctx)
	lapsed, err := uow.SubscriptionRepository().FindLapsed(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, sub := range lapsed {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		_, err := m.manager.Expire(ctx, m.uowFactory.NewUnitOfWork(ctx), sub)
		switch {
		case err == nil:
			result.Expired++
			metrics.ExpirySweepsTotal.WithLabelValues("expired").Inc()
		case xerrors.KindOf(err) == xerrors.KindConcurrentModification:
			result.Conflicts++
			metrics.ExpirySweepsTotal.WithLabelValues("conflict").Inc()
			m.logger.Warn("WORKER", "Skipped subscription edited during sweep", map[string]interface{}{
				"vendorId": sub.VendorId.String(),
			})
		default:
			result.Failed++
			metrics.ExpirySweepsTotal.WithLabelValues("failed").Inc()
			m.logger.Error("WORKER", "Failed to expire subscription", map[string]interface{}{
				"vendorId": sub.VendorId.String(),
				"error":    err.Error(),
			})
		}
	}

	soon, err := uow.SubscriptionRepository().CountEndingBetween(ctx, now, now.AddDate(0, 0, m.expiringSoonDays))
	if err != nil {
		return result, err
	}
	result.ExpiringSoon = soon
	metrics.SubscriptionsExpiringSoon.Set(float64(soon))

	if result.Expired > 0 || result.Conflicts > 0 || result.Failed > 0 {
		m.logger.Info("WORKER", "Expiry sweep finished", map[string]interface{}{
			"expired":      result.Expired,
			"conflicts":    result.Conflicts,
			"failed":       result.Failed,
			"expiringSoon": soon,
		})
	}
	return result, nil
}
