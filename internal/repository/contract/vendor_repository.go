package contract

import (
	"context"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	FindByEmail(ctx context.Context, email string) (*entity.Vendor, error)
	FindAll(ctx context.Context, opts ListOptions) ([]*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	Count(ctx context.Context) (int64, error)
}
