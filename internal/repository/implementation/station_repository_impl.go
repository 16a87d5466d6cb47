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

type stationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StationMapper
}

func NewStationRepository(db *gorm.DB) contract.StationRepository {
	return &stationRepositoryImpl{db: db, mapper: mapper.NewStationMapper()}
}

func (r *stationRepositoryImpl) Create(ctx context.Context, station *entity.Station) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(station)).Error
}

func (r *stationRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Station, error) {
	var mdl model.Station
	if err := r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply).First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&mdl), nil
}

func (r *stationRepositoryImpl) FindByVendorId(ctx context.Context, vendorId uuid.UUID) ([]*entity.Station, error) {
	var mdls []*model.Station
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.ByVendor{VendorID: vendorId},
		specification.OrderBy{Field: "created_at"},
	)
	if err := query.Find(&mdls).Error; err != nil {
		return nil, err
	}
	stations := make([]*entity.Station, 0, len(mdls))
	for _, m := range mdls {
		stations = append(stations, r.mapper.ToEntity(m))
	}
	return stations, nil
}

func (r *stationRepositoryImpl) CountByVendorId(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Station{}).
		Scopes(specification.ByVendor{VendorID: vendorId}.Apply).
		Count(&count).Error
	return count, err
}

func (r *stationRepositoryImpl) Update(ctx context.Context, station *entity.Station, expectedVersion int) error {
	mdl := r.mapper.ToModel(station)
	res := r.db.WithContext(ctx).Model(&model.Station{}).
		Where("id = ? AND version = ?", station.Id, expectedVersion).
		Updates(map[string]interface{}{
			"name":               mdl.Name,
			"premium_active":     mdl.PremiumActive,
			"premium_type":       mdl.PremiumType,
			"premium_start_date": mdl.PremiumStartDate,
			"premium_end_date":   mdl.PremiumEndDate,
			"version":            expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return xerrors.E("StationRepository.Update", xerrors.ErrConcurrentModification)
	}
	station.Version = expectedVersion + 1
	return nil
}

func (r *stationRepositoryImpl) CountPremiumActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Station{}).
		Scopes(specification.Filter("premium_active", true).Apply).
		Where("premium_end_date > ?", now).
		Count(&count).Error
	return count, err
}
