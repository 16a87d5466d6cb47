package mapper

import (
	"evcharge-be/internal/entity"
	"evcharge-be/internal/model"
)

type VendorMapper struct{}

func NewVendorMapper() *VendorMapper {
	return &VendorMapper{}
}

func (m *VendorMapper) ToEntity(v *model.Vendor) *entity.Vendor {
	if v == nil {
		return nil
	}
	e := &entity.Vendor{
		Id:           v.Id,
		BusinessName: v.BusinessName,
		Email:        v.Email,
		IsVerified:   v.IsVerified,
		VerifiedAt:   v.VerifiedAt,
		VerifiedBy:   v.VerifiedBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if v.BankAccountNumber != "" || v.BankName != "" || v.BankAccountName != "" {
		e.BankDetails = &entity.BankDetails{
			AccountName:   v.BankAccountName,
			AccountNumber: v.BankAccountNumber,
			BankName:      v.BankName,
			BranchName:    v.BankBranchName,
		}
	}
	return e
}

func (m *VendorMapper) ToModel(v *entity.Vendor) *model.Vendor {
	if v == nil {
		return nil
	}
	mdl := &model.Vendor{
		Id:           v.Id,
		BusinessName: v.BusinessName,
		Email:        v.Email,
		IsVerified:   v.IsVerified,
		VerifiedAt:   v.VerifiedAt,
		VerifiedBy:   v.VerifiedBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if v.BankDetails != nil {
		mdl.BankAccountName = v.BankDetails.AccountName
		mdl.BankAccountNumber = v.BankDetails.AccountNumber
		mdl.BankName = v.BankDetails.BankName
		mdl.BankBranchName = v.BankDetails.BranchName
	}
	return mdl
}
