package contract

import (
	"context"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
)

type RefundRepository interface {
	// Create fails with DUPLICATE_REFUND when the booking already has a refund.
	Create(ctx context.Context, refund *entity.RefundRequest) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error)
	FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error)
	// FindByStatus returns requests oldest first, ties broken by id.
	FindByStatus(ctx context.Context, status entity.RefundStatus, opts ListOptions) ([]*entity.RefundRequest, error)
	Update(ctx context.Context, refund *entity.RefundRequest) error
	CountByStatus(ctx context.Context, status entity.RefundStatus) (int64, error)
}
