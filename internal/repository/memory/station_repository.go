package memory

import (
	"context"
	"time"
	"fmt"
	"sort"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/google/uuid"
)

type stationRepository struct {
	u *unitOfWork
}

func (r *stationRepository) Create(ctx context.Context, station *entity.Station) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.stations[station.Id]; ok {
			return fmt.Errorf("station %s already exists", station.Id)
		}
		if station.CreatedAt.IsZero() {
			station.CreatedAt = r.u.store.now()
		}
		station.UpdatedAt = station.CreatedAt
		s.stations[station.Id] = station.Clone()
		return nil
	})
}

func (r *stationRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Station, error) {
	var out *entity.Station
	r.u.read(func(s *state) {
		out = s.stations[id].Clone()
	})
	return out, nil
}

func (r *stationRepository) FindByVendorId(ctx context.Context, vendorId uuid.UUID) ([]*entity.Station, error) {
	out := []*entity.Station{}
	r.u.read(func(s *state) {
		for _, st := range s.stations {
			if st.VendorId == vendorId {
				out = append(out, st.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stationRepository) CountByVendorId(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, st := range s.stations {
			if st.VendorId == vendorId {
				n++
			}
		}
	})
	return n, nil
}

func (r *stationRepository) Update(ctx context.Context, station *entity.Station, expectedVersion int) error {
	return r.u.write(func(s *state) error {
		stored, ok := s.stations[station.Id]
		if !ok || stored.Version != expectedVersion {
			return xerrors.E("StationRepository.Update", xerrors.ErrConcurrentModification)
		}
		station.Version = expectedVersion + 1
		station.UpdatedAt = r.u.store.now()
		s.stations[station.Id] = station.Clone()
		return nil
	})
}

func (r *stationRepository) CountPremiumActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, st := range s.stations {
			if st.Premium.IsPremiumActive(now) {
				n++
			}
		}
	})
	return n, nil
}
