package entity

import (
	"time"

	"github.com/google/uuid"
)

type PremiumType string

const (
	PremiumTypeMonthly PremiumType = "monthly"
	PremiumTypeYearly  PremiumType = "yearly"
)

func (t PremiumType) Valid() bool {
	return t == PremiumTypeMonthly || t == PremiumTypeYearly
}

// PeriodFor returns the paid period length of a premium plan.
func PeriodFor(t PremiumType) time.Duration {
	if t == PremiumTypeYearly {
		return 365 * Day
	}
	return 30 * Day
}

// StationPremium is the per-station paid add-on. Type and dates are nil
// while inactive.
type StationPremium struct {
	IsActive  bool
	Type      *PremiumType
	StartDate *time.Time
	EndDate   *time.Time
}

// IsPremiumActive is the single definition of "premium is on" used by every
// read path: the flag alone is not enough once the end date has passed.
func (p StationPremium) IsPremiumActive(now time.Time) bool {
	return p.IsActive && p.EndDate != nil && p.EndDate.After(now)
}

func (p StationPremium) DaysUntilExpiration(now time.Time) int {
	if p.EndDate == nil {
		return 0
	}
	return DaysUntilExpiration(*p.EndDate, now)
}

func (p StationPremium) Clone() StationPremium {
	c := StationPremium{IsActive: p.IsActive}
	if p.Type != nil {
		t := *p.Type
		c.Type = &t
	}
	if p.StartDate != nil {
		s := *p.StartDate
		c.StartDate = &s
	}
	if p.EndDate != nil {
		e := *p.EndDate
		c.EndDate = &e
	}
	return c
}

type Station struct {
	Id        uuid.UUID
	VendorId  uuid.UUID
	Name      string
	Premium   StationPremium
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Station) Clone() *Station {
	if s == nil {
		return nil
	}
	c := *s
	c.Premium = s.Premium.Clone()
	return &c
}
