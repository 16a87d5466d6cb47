package mapper

import (
	"evcharge-be/internal/entity"
	"evcharge-be/internal/model"
)

type StationMapper struct{}

func NewStationMapper() *StationMapper {
	return &StationMapper{}
}

func (m *StationMapper) ToEntity(s *model.Station) *entity.Station {
	if s == nil {
		return nil
	}
	premium := entity.StationPremium{
		IsActive:  s.PremiumActive,
		StartDate: s.PremiumStartDate,
		EndDate:   s.PremiumEndDate,
	}
	if s.PremiumType != nil {
		t := entity.PremiumType(*s.PremiumType)
		premium.Type = &t
	}
	return &entity.Station{
		Id:        s.Id,
		VendorId:  s.VendorId,
		Name:      s.Name,
		Premium:   premium,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *StationMapper) ToModel(s *entity.Station) *model.Station {
	if s == nil {
		return nil
	}
	mdl := &model.Station{
		Id:               s.Id,
		VendorId:         s.VendorId,
		Name:             s.Name,
		PremiumActive:    s.Premium.IsActive,
		PremiumStartDate: s.Premium.StartDate,
		PremiumEndDate:   s.Premium.EndDate,
		Version:          s.Version,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Premium.Type != nil {
		t := string(*s.Premium.Type)
		mdl.PremiumType = &t
	}
	return mdl
}
