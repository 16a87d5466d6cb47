package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"

	"github.com/google/uuid"
)

type vendorRepository struct {
	u *unitOfWork
}

func (r *vendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.vendors[vendor.Id]; ok {
			return fmt.Errorf("vendor %s already exists", vendor.Id)
		}
		for _, v := range s.vendors {
			if strings.EqualFold(v.Email, vendor.Email) {
				return xerrors.E("VendorRepository.Create", xerrors.ErrAlreadyRegistered)
			}
		}
		if vendor.CreatedAt.IsZero() {
			vendor.CreatedAt = r.u.store.now()
		}
		vendor.UpdatedAt = vendor.CreatedAt
		s.vendors[vendor.Id] = cloneVendor(vendor)
		return nil
	})
}

func (r *vendorRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	var out *entity.Vendor
	r.u.read(func(s *state) {
		out = cloneVendor(s.vendors[id])
	})
	return out, nil
}

func (r *vendorRepository) FindByEmail(ctx context.Context, email string) (*entity.Vendor, error) {
	var out *entity.Vendor
	r.u.read(func(s *state) {
		for _, v := range s.vendors {
			if strings.EqualFold(v.Email, email) {
				out = cloneVendor(v)
				return
			}
		}
	})
	return out, nil
}

func (r *vendorRepository) FindAll(ctx context.Context, opts contract.ListOptions) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	r.u.read(func(s *state) {
		for _, v := range s.vendors {
			out = append(out, cloneVendor(v))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id.String() < out[j].Id.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, opts), nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.vendors[vendor.Id]; !ok {
			return nil
		}
		vendor.UpdatedAt = r.u.store.now()
		s.vendors[vendor.Id] = cloneVendor(vendor)
		return nil
	})
}

func (r *vendorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		n = int64(len(s.vendors))
	})
	return n, nil
}
