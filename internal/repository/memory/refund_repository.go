package memory

import (
	"context"
	"fmt"
	"sort"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"

	"github.com/google/uuid"
)

type refundRepository struct {
	u *unitOfWork
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.RefundRequest) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.refunds[refund.Id]; ok {
			return fmt.Errorf("refund %s already exists", refund.Id)
		}
		for _, existing := range s.refunds {
			if existing.BookingId == refund.BookingId {
				return xerrors.E("RefundRepository.Create", xerrors.ErrDuplicateRefund)
			}
		}
		if refund.CreatedAt.IsZero() {
			refund.CreatedAt = r.u.store.now()
		}
		refund.UpdatedAt = refund.CreatedAt
		s.refunds[refund.Id] = refund.Clone()
		return nil
	})
}

func (r *refundRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	var out *entity.RefundRequest
	r.u.read(func(s *state) {
		out = s.refunds[id].Clone()
	})
	return out, nil
}

func (r *refundRepository) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	return r.FindById(ctx, id)
}

func (r *refundRepository) FindByStatus(ctx context.Context, status entity.RefundStatus, opts contract.ListOptions) ([]*entity.RefundRequest, error) {
	out := []*entity.RefundRequest{}
	r.u.read(func(s *state) {
		for _, refund := range s.refunds {
			if refund.Status == status {
				out = append(out, refund.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].QueuedBefore(out[j]) })
	return paginate(out, opts), nil
}

func (r *refundRepository) Update(ctx context.Context, refund *entity.RefundRequest) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.refunds[refund.Id]; !ok {
			return nil
		}
		refund.UpdatedAt = r.u.store.now()
		s.refunds[refund.Id] = refund.Clone()
		return nil
	})
}

func (r *refundRepository) CountByStatus(ctx context.Context, status entity.RefundStatus) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, refund := range s.refunds {
			if refund.Status == status {
				n++
			}
		}
	})
	return n, nil
}
