package service

import (
	"context"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/metrics"
	"evcharge-be/internal/repository/unitofwork"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/admin/mapper"
	"evcharge-be/pkg/admin/settlement"
	"evcharge-be/pkg/admin/subscription"

	"github.com/google/uuid"
)

// ILicensingService is the vendor-facing surface. Every call carries the
// caller's vendor scope; uuid.Nil means unrestricted (admin callers).
// Resources outside the scope are reported as NOT_FOUND.
type ILicensingService interface {
	GetVendorSubscription(ctx context.Context, scope, vendorId uuid.UUID) (*dto.VendorSubscriptionResponse, error)
	GetStationPremium(ctx context.Context, scope, stationId uuid.UUID) (*dto.StationPremiumResponse, error)
	ActivateStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*dto.StationPremiumResponse, error)
	ExtendStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*dto.StationPremiumResponse, error)
	DeactivateStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.DeactivatePremiumRequest, actor string) (*dto.StationPremiumResponse, error)
	GetDailySettlement(ctx context.Context, scope, vendorId uuid.UUID, date string) (*dto.DailySettlementResponse, error)
}

type licensingService struct {
	uowFactory          unitofwork.RepositoryFactory
	subscriptionManager *subscription.Manager
	settlementProcessor *settlement.Processor
	now                 func() time.Time
}

func NewLicensingService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptionManager *subscription.Manager,
	settlementProcessor *settlement.Processor,
) ILicensingService {
	return &licensingService{
		uowFactory:          uowFactory,
		subscriptionManager: subscriptionManager,
		settlementProcessor: settlementProcessor,
		now:                 time.Now,
	}
}

func inScope(scope, vendorId uuid.UUID) bool {
	return scope == uuid.Nil || scope == vendorId
}

func (s *licensingService) GetVendorSubscription(ctx context.Context, scope, vendorId uuid.UUID) (*dto.VendorSubscriptionResponse, error) {
	if !inScope(scope, vendorId) {
		return nil, xerrors.New(xerrors.KindNotFound, "GetVendorSubscription", "vendor subscription not found")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.subscriptionManager.GetVendorSubscription(ctx, uow, vendorId)
	if err != nil {
		return nil, err
	}
	return mapper.SubscriptionToResponse(sub, s.now()), nil
}

// scopedStation loads the station and hides it from callers outside scope.
// A station never changes vendor, so the check stays valid for the write that follows.
func (s *licensingService) scopedStation(ctx context.Context, op string, scope, stationId uuid.UUID) (*entity.Station, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	station, err := s.subscriptionManager.GetStation(ctx, uow, stationId)
	if err != nil {
		return nil, err
	}
	if !inScope(scope, station.VendorId) {
		return nil, xerrors.New(xerrors.KindNotFound, op, "station not found")
	}
	return station, nil
}

func (s *licensingService) GetStationPremium(ctx context.Context, scope, stationId uuid.UUID) (*dto.StationPremiumResponse, error) {
	station, err := s.scopedStation(ctx, "GetStationPremium", scope, stationId)
	if err != nil {
		return nil, err
	}
	return mapper.PremiumToResponse(station, s.now()), nil
}

func (s *licensingService) ActivateStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*dto.StationPremiumResponse, error) {
	if _, err := s.scopedStation(ctx, "ActivateStationPremium", scope, stationId); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	station, err := s.subscriptionManager.ActivatePremium(ctx, uow, stationId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.StationPremiumActivated)
	return mapper.PremiumToResponse(station, s.now()), nil
}

func (s *licensingService) ExtendStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*dto.StationPremiumResponse, error) {
	if _, err := s.scopedStation(ctx, "ExtendStationPremium", scope, stationId); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	station, err := s.subscriptionManager.ExtendPremium(ctx, uow, stationId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.StationPremiumExtended)
	return mapper.PremiumToResponse(station, s.now()), nil
}

func (s *licensingService) DeactivateStationPremium(ctx context.Context, scope, stationId uuid.UUID, req dto.DeactivatePremiumRequest, actor string) (*dto.StationPremiumResponse, error) {
	if _, err := s.scopedStation(ctx, "DeactivateStationPremium", scope, stationId); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	station, err := s.subscriptionManager.DeactivatePremium(ctx, uow, stationId, req, actor)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(adminEvents.StationPremiumDeactivated)
	return mapper.PremiumToResponse(station, s.now()), nil
}

func (s *licensingService) GetDailySettlement(ctx context.Context, scope, vendorId uuid.UUID, date string) (*dto.DailySettlementResponse, error) {
	if !inScope(scope, vendorId) {
		return nil, xerrors.New(xerrors.KindNotFound, "GetDailySettlement", "vendor not found")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	view, err := s.settlementProcessor.GetDailySettlement(ctx, uow, vendorId, date)
	if err != nil {
		return nil, err
	}
	return mapper.DailySettlementToResponse(view.Ledger, view.OpenRequest), nil
}
