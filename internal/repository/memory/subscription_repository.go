package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	u *unitOfWork
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.VendorSubscription) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.subscriptions[sub.VendorId]; ok {
			return fmt.Errorf("vendor %s already has a subscription", sub.VendorId)
		}
		if sub.CreatedAt.IsZero() {
			sub.CreatedAt = r.u.store.now()
		}
		sub.UpdatedAt = sub.CreatedAt
		s.subscriptions[sub.VendorId] = sub.Clone()
		return nil
	})
}

func (r *subscriptionRepository) FindByVendorId(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error) {
	var out *entity.VendorSubscription
	r.u.read(func(s *state) {
		out = s.subscriptions[vendorId].Clone()
	})
	return out, nil
}

func (r *subscriptionRepository) FindByVendorIdForUpdate(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error) {
	return r.FindByVendorId(ctx, vendorId)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *entity.VendorSubscription, expectedVersion int) error {
	return r.u.write(func(s *state) error {
		stored, ok := s.subscriptions[sub.VendorId]
		if !ok || stored.Id != sub.Id || stored.Version != expectedVersion {
			return xerrors.E("SubscriptionRepository.Update", xerrors.ErrConcurrentModification)
		}
		sub.Version = expectedVersion + 1
		sub.UpdatedAt = r.u.store.now()
		s.subscriptions[sub.VendorId] = sub.Clone()
		return nil
	})
}

func (r *subscriptionRepository) FindLapsed(ctx context.Context, now time.Time) ([]*entity.VendorSubscription, error) {
	var out []*entity.VendorSubscription
	r.u.read(func(s *state) {
		for _, sub := range s.subscriptions {
			if sub.Status == entity.SubscriptionStatusActive && sub.EndDate.Before(now) {
				out = append(out, sub.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, sub := range s.subscriptions {
			if sub.Status == status {
				n++
			}
		}
	})
	return n, nil
}

func (r *subscriptionRepository) CountEndingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, sub := range s.subscriptions {
			if sub.Status == entity.SubscriptionStatusActive && !sub.EndDate.Before(from) && !sub.EndDate.After(to) {
				n++
			}
		}
	})
	return n, nil
}
