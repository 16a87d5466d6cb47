package mapper

import (
	"evcharge-be/internal/entity"
	"evcharge-be/internal/model"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.VendorSubscription) *entity.VendorSubscription {
	if s == nil {
		return nil
	}
	features := lo.Map(s.Features, func(f string, _ int) entity.Feature {
		return entity.Feature(f)
	})
	return &entity.VendorSubscription{
		Id:          s.Id,
		VendorId:    s.VendorId,
		Type:        entity.SubscriptionType(s.Type),
		Status:      entity.SubscriptionStatus(s.Status),
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		AutoRenew:   s.AutoRenew,
		MaxStations: s.MaxStations,
		Features:    entity.NewFeatureSet(features...),
		Version:     s.Version,
		UpdatedBy:   s.UpdatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.VendorSubscription) *model.VendorSubscription {
	if s == nil {
		return nil
	}
	features := lo.Map(s.Features.List(), func(f entity.Feature, _ int) string {
		return string(f)
	})
	return &model.VendorSubscription{
		Id:          s.Id,
		VendorId:    s.VendorId,
		Type:        string(s.Type),
		Status:      string(s.Status),
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		AutoRenew:   s.AutoRenew,
		MaxStations: s.MaxStations,
		Features:    datatypes.JSONSlice[string](features),
		Version:     s.Version,
		UpdatedBy:   s.UpdatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
