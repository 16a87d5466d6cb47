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

type vendorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VendorMapper
}

func NewVendorRepository(db *gorm.DB) contract.VendorRepository {
	return &vendorRepositoryImpl{db: db, mapper: mapper.NewVendorMapper()}
}

func (r *vendorRepositoryImpl) Create(ctx context.Context, vendor *entity.Vendor) error {
	mdl := r.mapper.ToModel(vendor)
	if err := r.db.WithContext(ctx).Create(mdl).Error; err != nil {
		if isUniqueViolation(err, "") {
			return xerrors.E("VendorRepository.Create", xerrors.ErrAlreadyRegistered)
		}
		return err
	}
	vendor.CreatedAt = mdl.CreatedAt
	vendor.UpdatedAt = mdl.UpdatedAt
	return nil
}

func (r *vendorRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *vendorRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.Vendor, error) {
	return r.findOne(ctx, specification.Filter("email", email))
}

func (r *vendorRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Vendor, error) {
	var mdl model.Vendor
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&mdl).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&mdl), nil
}

func (r *vendorRepositoryImpl) FindAll(ctx context.Context, opts contract.ListOptions) ([]*entity.Vendor, error) {
	var mdls []*model.Vendor
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: opts.Limit, Offset: opts.Offset},
	)
	if err := query.Find(&mdls).Error; err != nil {
		return nil, err
	}
	vendors := make([]*entity.Vendor, 0, len(mdls))
	for _, m := range mdls {
		vendors = append(vendors, r.mapper.ToEntity(m))
	}
	return vendors, nil
}

func (r *vendorRepositoryImpl) Update(ctx context.Context, vendor *entity.Vendor) error {
	mdl := r.mapper.ToModel(vendor)
	return r.db.WithContext(ctx).Model(&model.Vendor{}).
		Where("id = ?", vendor.Id).
		Updates(map[string]interface{}{
			"business_name":       mdl.BusinessName,
			"is_verified":         mdl.IsVerified,
			"verified_at":         mdl.VerifiedAt,
			"verified_by":         mdl.VerifiedBy,
			"bank_account_name":   mdl.BankAccountName,
			"bank_account_number": mdl.BankAccountNumber,
			"bank_name":           mdl.BankName,
			"bank_branch_name":    mdl.BankBranchName,
		}).Error
}

func (r *vendorRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vendor{}).Count(&count).Error
	return count, err
}
