package service

import (
	"context"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/metrics"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/unitofwork"
	"evcharge-be/pkg/admin/dashboard"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/admin/mapper"
	"evcharge-be/pkg/admin/onboarding"
	"evcharge-be/pkg/admin/refund"
	"evcharge-be/pkg/admin/settlement"
	"evcharge-be/pkg/admin/subscription"

	"github.com/google/uuid"
)

type IAdminService interface {
	// Dashboard & Logs
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetSystemLogs(ctx context.Context, req dto.AdminLogListRequest) ([]dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// Vendor Management
	RegisterVendor(ctx context.Context, req dto.RegisterVendorRequest) (*dto.VendorRegistrationResponse, error)
	GetVendors(ctx context.Context, req dto.VendorListRequest) ([]*dto.VendorResponse, int64, error)
	GetVendor(ctx context.Context, vendorId uuid.UUID) (*dto.VendorResponse, error)
	VerifyVendor(ctx context.Context, vendorId uuid.UUID, actor string) (*dto.VendorResponse, error)
	UpdateBankDetails(ctx context.Context, vendorId uuid.UUID, req dto.BankDetailsRequest, actor string) (*dto.VendorResponse, error)
	RegisterStation(ctx context.Context, vendorId uuid.UUID, req dto.CreateStationRequest, actor string) (*dto.StationResponse, error)
	GetStations(ctx context.Context, vendorId uuid.UUID) ([]*dto.StationResponse, error)

	// Subscription Management
	GetVendorSubscription(ctx context.Context, vendorId uuid.UUID) (*dto.VendorSubscriptionResponse, error)
	ExtendVendorSubscription(ctx context.Context, vendorId uuid.UUID, req dto.ExtendVendorSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error)
	ModifyVendorSubscription(ctx context.Context, vendorId uuid.UUID, req dto.ModifyVendorSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error)
	UpgradeTrialToYearly(ctx context.Context, vendorId uuid.UUID, req dto.UpgradeSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error)

	// Settlement Management
	RecordCompletedBooking(ctx context.Context, req dto.RecordBookingRequest) (*dto.DailySettlementResponse, error)
	InitiateSettlement(ctx context.Context, req dto.InitiateSettlementRequest, actor string) (*dto.SettlementResultResponse, error)
	CompleteSettlement(ctx context.Context, settlementId uuid.UUID, req dto.CompleteSettlementRequest, actor string) (*dto.SettlementResultResponse, error)
	GetSettlements(ctx context.Context, req dto.SettlementListRequest) ([]*dto.SettlementRequestResponse, error)
	GetDailySettlement(ctx context.Context, vendorId uuid.UUID, date string) (*dto.DailySettlementResponse, error)

	// Refund Queue
	SubmitRefund(ctx context.Context, req dto.SubmitRefundRequest) (*dto.RefundResponse, error)
	GetRefunds(ctx context.Context, req dto.RefundListRequest) ([]*dto.RefundResponse, error)
	GetNextRefund(ctx context.Context) (*dto.RefundResponse, error)
	GetRefund(ctx context.Context, refundId uuid.UUID) (*dto.RefundResponse, error)
	ClaimRefund(ctx context.Context, refundId uuid.UUID, actor string) (*dto.RefundResponse, error)
	ProcessRefund(ctx context.Context, refundId uuid.UUID, req dto.ProcessRefundRequest, actor string) (*dto.RefundResponse, error)
	ReleaseRefund(ctx context.Context, refundId uuid.UUID, actor string) (*dto.RefundResponse, error)
	RejectRefund(ctx context.Context, refundId uuid.UUID, req dto.RefundReasonRequest, actor string) (*dto.RefundResponse, error)
	FailRefund(ctx context.Context, refundId uuid.UUID, req dto.RefundReasonRequest, actor string) (*dto.RefundResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time

	// Domain Components
	vendorManager       *onboarding.Manager
	subscriptionManager *subscription.Manager
	settlementProcessor *settlement.Processor
	refundProcessor     *refund.Processor
	dashboardAggregator *dashboard.Aggregator
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	vendorManager *onboarding.Manager,
	subscriptionManager *subscription.Manager,
	settlementProcessor *settlement.Processor,
	refundProcessor *refund.Processor,
	dashboardAggregator *dashboard.Aggregator,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		now:                 time.Now,
		vendorManager:       vendorManager,
		subscriptionManager: subscriptionManager,
		settlementProcessor: settlementProcessor,
		refundProcessor:     refundProcessor,
		dashboardAggregator: dashboardAggregator,
	}
}

// ============================================================================
// Dashboard & Logs
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

func (s *adminService) GetSystemLogs(ctx context.Context, req dto.AdminLogListRequest) ([]dto.LogListResponse, error) {
	opts := contract.Page(req.Page, req.Limit)
	entries, err := s.logger.GetLogs(req.Level, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	return mapper.LogsToListResponse(entries), nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}
	return mapper.LogToDetailResponse(entry), nil
}

// ============================================================================
// Vendor Management
// ============================================================================

func (s *adminService) RegisterVendor(ctx context.Context, req dto.RegisterVendorRequest) (*dto.VendorRegistrationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendor, sub, err := s.vendorManager.Register(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return &dto.VendorRegistrationResponse{
		Vendor:       *mapper.VendorToResponse(vendor),
		Subscription: *mapper.SubscriptionToResponse(sub, s.now()),
	}, nil
}

func (s *adminService) GetVendors(ctx context.Context, req dto.VendorListRequest) ([]*dto.VendorResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendors, total, err := s.vendorManager.List(ctx, uow, req)
	if err != nil {
		return nil, 0, err
	}
	return mapper.VendorsToResponse(vendors), total, nil
}

func (s *adminService) GetVendor(ctx context.Context, vendorId uuid.UUID) (*dto.VendorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendor, err := s.vendorManager.Get(ctx, uow, vendorId)
	if err != nil {
		return nil, err
	}
	return mapper.VendorToResponse(vendor), nil
}

func (s *adminService) VerifyVendor(ctx context.Context, vendorId uuid.UUID, actor string) (*dto.VendorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendor, err := s.vendorManager.Verify(ctx, uow, vendorId, actor)
	if err != nil {
		return nil, err
	}
	return mapper.VendorToResponse(vendor), nil
}

func (s *adminService) UpdateBankDetails(ctx context.Context, vendorId uuid.UUID, req dto.BankDetailsRequest, actor string) (*dto.VendorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendor, err := s.vendorManager.UpdateBankDetails(ctx, uow, vendorId, req, actor)
	if err != nil {
		return nil, err
	}
	return mapper.VendorToResponse(vendor), nil
}

func (s *adminService) RegisterStation(ctx context.Context, vendorId uuid.UUID, req dto.CreateStationRequest, actor string) (*dto.StationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	station, err := s.vendorManager.RegisterStation(ctx, uow, vendorId, req, actor)
	if err != nil {
		return nil, err
	}
	return mapper.StationToResponse(station, s.now()), nil
}

func (s *adminService) GetStations(ctx context.Context, vendorId uuid.UUID) ([]*dto.StationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stations, err := s.vendorManager.ListStations(ctx, uow, vendorId)
	if err != nil {
		return nil, err
	}
	return mapper.StationsToResponse(stations, s.now()), nil
}

// ============================================================================
// Subscription Management
// ============================================================================

func (s *adminService) GetVendorSubscription(ctx context.Context, vendorId uuid.UUID) (*dto.VendorSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.subscriptionManager.GetVendorSubscription(ctx, uow, vendorId)
	if err != nil {
		return nil, err
	}
	return mapper.SubscriptionToResponse(sub, s.now()), nil
}

func (s *adminService) ExtendVendorSubscription(ctx context.Context, vendorId uuid.UUID, req dto.ExtendVendorSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.subscriptionManager.Extend(ctx, uow, vendorId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.SubscriptionExtended)
	return mapper.SubscriptionToResponse(sub, s.now()), nil
}

func (s *adminService) ModifyVendorSubscription(ctx context.Context, vendorId uuid.UUID, req dto.ModifyVendorSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.subscriptionManager.Modify(ctx, uow, vendorId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.SubscriptionModified)
	return mapper.SubscriptionToResponse(sub, s.now()), nil
}

func (s *adminService) UpgradeTrialToYearly(ctx context.Context, vendorId uuid.UUID, req dto.UpgradeSubscriptionRequest, actor string) (*dto.VendorSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.subscriptionManager.Upgrade(ctx, uow, vendorId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.SubscriptionUpgraded)
	return mapper.SubscriptionToResponse(sub, s.now()), nil
}

// ============================================================================
// Settlement Management
// ============================================================================

func (s *adminService) RecordCompletedBooking(ctx context.Context, req dto.RecordBookingRequest) (*dto.DailySettlementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	daily, err := s.settlementProcessor.RecordCompletedBooking(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	metrics.BookingsCreditedTotal.Inc()
	return mapper.DailySettlementToResponse(daily, nil), nil
}

func (s *adminService) InitiateSettlement(ctx context.Context, req dto.InitiateSettlementRequest, actor string) (*dto.SettlementResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.settlementProcessor.InitiateSettlement(ctx, uow, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordSettlementInitiated()
	return mapper.SettlementResultToResponse(result.Request, result.Ledger), nil
}

func (s *adminService) CompleteSettlement(ctx context.Context, settlementId uuid.UUID, req dto.CompleteSettlementRequest, actor string) (*dto.SettlementResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.settlementProcessor.CompleteSettlement(ctx, uow, settlementId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordSettlementCompleted(result.Request.Amount)
	return mapper.SettlementResultToResponse(result.Request, result.Ledger), nil
}

func (s *adminService) GetSettlements(ctx context.Context, req dto.SettlementListRequest) ([]*dto.SettlementRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	reqs, err := s.settlementProcessor.ListRequests(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return mapper.SettlementRequestsToResponse(reqs), nil
}

func (s *adminService) GetDailySettlement(ctx context.Context, vendorId uuid.UUID, date string) (*dto.DailySettlementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	view, err := s.settlementProcessor.GetDailySettlement(ctx, uow, vendorId, date)
	if err != nil {
		return nil, err
	}
	return mapper.DailySettlementToResponse(view.Ledger, view.OpenRequest), nil
}

// ============================================================================
// Refund Queue
// ============================================================================

func (s *adminService) SubmitRefund(ctx context.Context, req dto.SubmitRefundRequest) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.refundProcessor.Submit(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordRefund(string(r.Status))
	return mapper.RefundToResponse(r), nil
}

func (s *adminService) GetRefunds(ctx context.Context, req dto.RefundListRequest) ([]*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	refunds, err := s.refundProcessor.List(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return mapper.RefundsToResponse(refunds), nil
}

func (s *adminService) GetNextRefund(ctx context.Context) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.refundProcessor.NextPending(ctx, uow)
	if err != nil {
		return nil, err
	}
	return mapper.RefundToResponse(r), nil
}

func (s *adminService) GetRefund(ctx context.Context, refundId uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.refundProcessor.Get(ctx, uow, refundId)
	if err != nil {
		return nil, err
	}
	return mapper.RefundToResponse(r), nil
}

// refundStep runs one refund transition and counts its resulting status.
func (s *adminService) refundStep(r *entity.RefundRequest, err error) (*dto.RefundResponse, error) {
	if err != nil {
		return nil, err
	}
	metrics.RecordRefund(string(r.Status))
	return mapper.RefundToResponse(r), nil
}

func (s *adminService) ClaimRefund(ctx context.Context, refundId uuid.UUID, actor string) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundStep(s.refundProcessor.Claim(ctx, uow, refundId, actor))
}

func (s *adminService) ProcessRefund(ctx context.Context, refundId uuid.UUID, req dto.ProcessRefundRequest, actor string) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundStep(s.refundProcessor.Process(ctx, uow, refundId, req, actor))
}

func (s *adminService) ReleaseRefund(ctx context.Context, refundId uuid.UUID, actor string) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundStep(s.refundProcessor.Release(ctx, uow, refundId, actor))
}

func (s *adminService) RejectRefund(ctx context.Context, refundId uuid.UUID, req dto.RefundReasonRequest, actor string) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundStep(s.refundProcessor.Reject(ctx, uow, refundId, req, actor))
}

func (s *adminService) FailRefund(ctx context.Context, refundId uuid.UUID, req dto.RefundReasonRequest, actor string) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundStep(s.refundProcessor.Fail(ctx, uow, refundId, req, actor))
}
