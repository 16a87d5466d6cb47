package implementation

import (
	"context"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/mapper"
	"evcharge-be/internal/model"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RefundMapper
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db, mapper: mapper.NewRefundMapper()}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.RefundRequest) error {
	if err := r.db.WithContext(ctx).Create(r.mapper.ToModel(refund)).Error; err != nil {
		if isUniqueViolation(err, "") {
			return xerrors.E("RefundRepository.Create", xerrors.ErrDuplicateRefund)
		}
		return err
	}
	return nil
}

func (r *refundRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *refundRepositoryImpl) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	return r.findOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
}

func (r *refundRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRequest, error) {
	var mdl model.RefundRequest
	if err := specification.ApplyAll(r.db.WithContext(ctx), specs...).First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&mdl), nil
}

func (r *refundRepositoryImpl) FindByStatus(ctx context.Context, status entity.RefundStatus, opts contract.ListOptions) ([]*entity.RefundRequest, error) {
	var mdls []*model.RefundRequest
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.Filter("status", string(status)),
		specification.FIFO{},
		specification.Pagination{Limit: opts.Limit, Offset: opts.Offset},
	)
	if err := query.Find(&mdls).Error; err != nil {
		return nil, err
	}
	refunds := make([]*entity.RefundRequest, 0, len(mdls))
	for _, m := range mdls {
		refunds = append(refunds, r.mapper.ToEntity(m))
	}
	return refunds, nil
}

func (r *refundRepositoryImpl) Update(ctx context.Context, refund *entity.RefundRequest) error {
	mdl := r.mapper.ToModel(refund)
	return r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("id = ?", refund.Id).
		Updates(map[string]interface{}{
			"status":                mdl.Status,
			"platform_fee_deducted": mdl.PlatformFeeDeducted,
			"slot_occupancy_fee":    mdl.SlotOccupancyFee,
			"final_refund_amount":   mdl.FinalRefundAmount,
			"transaction_id":        mdl.TransactionId,
			"remarks":               mdl.Remarks,
			"reason":                mdl.Reason,
			"processed_by":          mdl.ProcessedBy,
			"processed_at":          mdl.ProcessedAt,
		}).Error
}

func (r *refundRepositoryImpl) CountByStatus(ctx context.Context, status entity.RefundStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Scopes(specification.Filter("status", string(status)).Apply).
		Count(&count).Error
	return count, err
}
