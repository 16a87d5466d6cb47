package dashboard

import (
	"context"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger           logger.ILogger
	expiringSoonDays int
	now              func() time.Time
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger, expiringSoonDays int) *Aggregator {
	if expiringSoonDays <= 0 {
		expiringSoonDays = entity.ExpiringSoonDays
	}
	return &Aggregator{
		logger:           logger,
		expiringSoonDays: expiringSoonDays,
		now:              time.Now,
	}
}

func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	now := a.now()

	totalVendors, err := uow.VendorRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	subs := uow.SubscriptionRepository()
	active, err := subs.CountByStatus(ctx, entity.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}
	suspended, err := subs.CountByStatus(ctx, entity.SubscriptionStatusSuspended)
	if err != nil {
		return nil, err
	}
	expiringSoon, err := subs.CountEndingBetween(ctx, now, now.AddDate(0, 0, a.expiringSoonDays))
	if err != nil {
		return nil, err
	}

	premium, err := uow.StationRepository().CountPremiumActive(ctx, now)
	if err != nil {
		return nil, err
	}

	refunds := uow.RefundRepository()
	pendingRefunds, err := refunds.CountByStatus(ctx, entity.RefundStatusPending)
	if err != nil {
		return nil, err
	}
	processingRefunds, err := refunds.CountByStatus(ctx, entity.RefundStatusProcessing)
	if err != nil {
		return nil, err
	}
	oldest, err := refunds.FindByStatus(ctx, entity.RefundStatusPending, contract.ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}

	openRequests, err := uow.SettlementRepository().CountRequestsByStatus(ctx, entity.SettlementStatusProcessing)
	if err != nil {
		return nil, err
	}
	totals, err := uow.SettlementRepository().Totals(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.AdminDashboardStats{
		TotalVendors:           int(totalVendors),
		ActiveSubscriptions:    int(active),
		SuspendedSubscriptions: int(suspended),
		ExpiringSoon:           int(expiringSoon),
		PremiumStations:        int(premium),
		PendingRefunds:         int(pendingRefunds),
		ProcessingRefunds:      int(processingRefunds),
		OpenSettlementRequests: int(openRequests),
		TotalToBeReceived:      totals.TotalToBeReceived,
		PendingSettlement:      totals.PendingSettlement,
		InSettlementProcess:    totals.InSettlementProcess,
		PaymentSettled:         totals.PaymentSettled,
	}
	if len(oldest) > 0 {
		since := oldest[0].CreatedAt
		stats.OldestPendingRefundSince = &since
	}
	return stats, nil
}
