package implementation

import (
	"context"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/mapper"
	"evcharge-be/internal/model"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db, mapper: mapper.NewSubscriptionMapper()}
}

func (r *subscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.VendorSubscription) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(sub)).Error
}

func (r *subscriptionRepositoryImpl) FindByVendorId(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error) {
	return r.findOne(ctx, specification.ByVendor{VendorID: vendorId})
}

func (r *subscriptionRepositoryImpl) FindByVendorIdForUpdate(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error) {
	return r.findOne(ctx, specification.ByVendor{VendorID: vendorId}, specification.ForUpdate{})
}

func (r *subscriptionRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.VendorSubscription, error) {
	var mdl model.VendorSubscription
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&mdl), nil
}

func (r *subscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.VendorSubscription, expectedVersion int) error {
	mdl := r.mapper.ToModel(sub)
	res := r.db.WithContext(ctx).Model(&model.VendorSubscription{}).
		Where("id = ? AND version = ?", sub.Id, expectedVersion).
		Updates(map[string]interface{}{
			"type":         mdl.Type,
			"status":       mdl.Status,
			"start_date":   mdl.StartDate,
			"end_date":     mdl.EndDate,
			"auto_renew":   mdl.AutoRenew,
			"max_stations": mdl.MaxStations,
			"features":     mdl.Features,
			"updated_by":   mdl.UpdatedBy,
			"version":      expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return xerrors.E("SubscriptionRepository.Update", xerrors.ErrConcurrentModification)
	}
	sub.Version = expectedVersion + 1
	return nil
}

func (r *subscriptionRepositoryImpl) FindLapsed(ctx context.Context, now time.Time) ([]*entity.VendorSubscription, error) {
	var mdls []*model.VendorSubscription
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.LapsedBefore{Now: now},
		specification.OrderBy{Field: "end_date"},
	)
	if err := query.Find(&mdls).Error; err != nil {
		return nil, err
	}
	subs := make([]*entity.VendorSubscription, 0, len(mdls))
	for _, m := range mdls {
		subs = append(subs, r.mapper.ToEntity(m))
	}
	return subs, nil
}

func (r *subscriptionRepositoryImpl) CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VendorSubscription{}).
		Scopes(specification.Filter("status", string(status)).Apply).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepositoryImpl) CountEndingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VendorSubscription{}).
		Scopes(specification.EndingBetween{From: from, To: to}.Apply).
		Count(&count).Error
	return count, err
}
