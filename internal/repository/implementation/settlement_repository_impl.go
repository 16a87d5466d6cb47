package implementation

import (
	"context"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/mapper"
	"evcharge-be/internal/model"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/scope"
	"evcharge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OpenRequestIndex is the partial unique index guarding one open request per vendor and day.
const OpenRequestIndex = "ux_settlement_requests_open"

type settlementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SettlementMapper
}

func NewSettlementRepository(db *gorm.DB) contract.SettlementRepository {
	return &settlementRepositoryImpl{db: db, mapper: mapper.NewSettlementMapper()}
}

func (r *settlementRepositoryImpl) FindDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error) {
	return r.findDaily(ctx, specification.ByVendorDate{VendorID: vendorId, Date: entity.CalendarDate(date)})
}

func (r *settlementRepositoryImpl) FindDailyForUpdate(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error) {
	return r.findDaily(ctx,
		specification.ByVendorDate{VendorID: vendorId, Date: entity.CalendarDate(date)},
		specification.ForUpdate{},
	)
}

func (r *settlementRepositoryImpl) findDaily(ctx context.Context, specs ...specification.Specification) (*entity.DailySettlement, error) {
	var mdl model.DailySettlement
	if err := specification.ApplyAll(r.db.WithContext(ctx), specs...).First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DailyToEntity(&mdl), nil
}

func (r *settlementRepositoryImpl) EnsureDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) error {
	mdl := r.mapper.DailyToModel(entity.NewDailySettlement(vendorId, date))
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vendor_id"}, {Name: "settlement_date"}},
		DoNothing: true,
	}).Create(mdl).Error
}

// SaveDaily upserts on (vendor_id, settlement_date).
func (r *settlementRepositoryImpl) SaveDaily(ctx context.Context, daily *entity.DailySettlement) error {
	mdl := r.mapper.DailyToModel(daily)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "settlement_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_to_be_received", "pending_settlement", "in_settlement_process", "payment_settled", "updated_at",
		}),
	}).Create(mdl).Error
}

func (r *settlementRepositoryImpl) CreateLedgerEntry(ctx context.Context, entry *entity.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(r.mapper.LedgerEntryToModel(entry)).Error; err != nil {
		if isUniqueViolation(err, "") {
			return xerrors.E("SettlementRepository.CreateLedgerEntry", xerrors.ErrBookingAlreadyRecorded)
		}
		return err
	}
	return nil
}

func (r *settlementRepositoryImpl) CreateRequest(ctx context.Context, req *entity.SettlementRequest) error {
	if err := r.db.WithContext(ctx).Create(r.mapper.RequestToModel(req)).Error; err != nil {
		if isUniqueViolation(err, OpenRequestIndex) {
			return xerrors.E("SettlementRepository.CreateRequest", xerrors.ErrSettlementAlreadyInProgress)
		}
		return err
	}
	return nil
}

func (r *settlementRepositoryImpl) FindRequestById(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error) {
	return r.findRequest(ctx, specification.ByID{ID: id})
}

func (r *settlementRepositoryImpl) FindRequestByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error) {
	return r.findRequest(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
}

func (r *settlementRepositoryImpl) FindOpenRequest(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.SettlementRequest, error) {
	var mdl model.SettlementRequest
	query := r.db.WithContext(ctx).
		Scopes(specification.ByVendorDate{VendorID: vendorId, Date: entity.CalendarDate(date)}.Apply, scope.Open)
	if err := query.First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RequestToEntity(&mdl), nil
}

func (r *settlementRepositoryImpl) findRequest(ctx context.Context, specs ...specification.Specification) (*entity.SettlementRequest, error) {
	var mdl model.SettlementRequest
	if err := specification.ApplyAll(r.db.WithContext(ctx), specs...).First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RequestToEntity(&mdl), nil
}

func (r *settlementRepositoryImpl) UpdateRequest(ctx context.Context, req *entity.SettlementRequest) error {
	return r.db.WithContext(ctx).Model(&model.SettlementRequest{}).
		Where("id = ?", req.Id).
		Updates(map[string]interface{}{
			"status":            string(req.Status),
			"payment_reference": req.PaymentReference,
			"processing_notes":  req.ProcessingNotes,
			"completed_by":      req.CompletedBy,
			"completed_at":      req.CompletedAt,
		}).Error
}

func (r *settlementRepositoryImpl) ListRequests(ctx context.Context, filter contract.SettlementRequestFilter) ([]*entity.SettlementRequest, error) {
	specs := []specification.Specification{}
	if filter.VendorId != nil {
		specs = append(specs, specification.ByVendor{VendorID: *filter.VendorId})
	}
	if filter.Status != nil {
		specs = append(specs, specification.Filter("status", string(*filter.Status)))
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)

	var mdls []*model.SettlementRequest
	if err := specification.ApplyAll(r.db.WithContext(ctx), specs...).Find(&mdls).Error; err != nil {
		return nil, err
	}
	reqs := make([]*entity.SettlementRequest, 0, len(mdls))
	for _, m := range mdls {
		reqs = append(reqs, r.mapper.RequestToEntity(m))
	}
	return reqs, nil
}

func (r *settlementRepositoryImpl) CountRequestsByStatus(ctx context.Context, status entity.SettlementStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SettlementRequest{}).
		Scopes(specification.Filter("status", string(status)).Apply).
		Count(&count).Error
	return count, err
}

func (r *settlementRepositoryImpl) Totals(ctx context.Context) (*contract.SettlementTotals, error) {
	var totals contract.SettlementTotals
	err := r.db.WithContext(ctx).Model(&model.DailySettlement{}).
		Select(`COALESCE(SUM(total_to_be_received), 0) AS total_to_be_received,
			COALESCE(SUM(pending_settlement), 0) AS pending_settlement,
			COALESCE(SUM(in_settlement_process), 0) AS in_settlement_process,
			COALESCE(SUM(payment_settled), 0) AS payment_settled`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
