package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type SubscriptionType string
type SubscriptionStatus string
type Feature string

const (
	SubscriptionTypeTrial  SubscriptionType = "trial"
	SubscriptionTypeYearly SubscriptionType = "yearly"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"

	FeatureBasicDashboard    Feature = "basicDashboard"
	FeatureAdvancedAnalytics Feature = "advancedAnalytics"
	FeaturePrioritySupport   Feature = "prioritySupport"
	FeatureCustomBranding    Feature = "customBranding"
	FeatureApiAccess         Feature = "apiAccess"
)

const (
	Day               = 24 * time.Hour
	TrialPeriod       = 7 * Day
	YearlyPeriod      = 365 * Day
	ExpiringSoonDays  = 7
	TrialMaxStations  = 5
	YearlyMaxStations = 50
)

// AllFeatures is ordered for stable serialization.
var AllFeatures = []Feature{
	FeatureBasicDashboard,
	FeatureAdvancedAnalytics,
	FeaturePrioritySupport,
	FeatureCustomBranding,
	FeatureApiAccess,
}

func (t SubscriptionType) Valid() bool {
	return t == SubscriptionTypeTrial || t == SubscriptionTypeYearly
}

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusExpired, SubscriptionStatusSuspended:
		return true
	}
	return false
}

// MaxStationsFor returns the default station allowance of a plan tier.
func MaxStationsFor(t SubscriptionType) int {
	if t == SubscriptionTypeYearly {
		return YearlyMaxStations
	}
	return TrialMaxStations
}

// FeaturesFor returns the feature set unlocked by a plan tier.
func FeaturesFor(t SubscriptionType) FeatureSet {
	if t == SubscriptionTypeYearly {
		return NewFeatureSet(AllFeatures...)
	}
	return NewFeatureSet(FeatureBasicDashboard)
}

// FeatureSet is the enabled-flag map of a vendor subscription.
type FeatureSet map[Feature]bool

func NewFeatureSet(features ...Feature) FeatureSet {
	fs := make(FeatureSet, len(AllFeatures))
	for _, f := range AllFeatures {
		fs[f] = false
	}
	for _, f := range features {
		fs[f] = true
	}
	return fs
}

func (fs FeatureSet) Enabled(f Feature) bool {
	return fs[f]
}

// List returns the enabled flags in canonical order.
func (fs FeatureSet) List() []Feature {
	out := make([]Feature, 0, len(fs))
	for _, f := range AllFeatures {
		if fs[f] {
			out = append(out, f)
		}
	}
	return out
}

func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

type VendorSubscription struct {
	Id          uuid.UUID
	VendorId    uuid.UUID
	Type        SubscriptionType
	Status      SubscriptionStatus
	StartDate   time.Time
	EndDate     time.Time
	AutoRenew   bool
	MaxStations int
	Features    FeatureSet
	Version     int
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTrialSubscription is the subscription every vendor starts with at signup.
func NewTrialSubscription(vendorId uuid.UUID, now time.Time) *VendorSubscription {
	return &VendorSubscription{
		Id:          uuid.New(),
		VendorId:    vendorId,
		Type:        SubscriptionTypeTrial,
		Status:      SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     now.Add(TrialPeriod),
		MaxStations: TrialMaxStations,
		Features:    FeaturesFor(SubscriptionTypeTrial),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy so transitions never alias the caller's value.
func (s *VendorSubscription) Clone() *VendorSubscription {
	if s == nil {
		return nil
	}
	c := *s
	c.Features = s.Features.Clone()
	return &c
}

// DaysUntilExpiration rounds partial days up and never goes negative.
func DaysUntilExpiration(end, now time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(float64(remaining) / float64(Day)))
}

func (s *VendorSubscription) DaysUntilExpiration(now time.Time) int {
	return DaysUntilExpiration(s.EndDate, now)
}

func (s *VendorSubscription) IsExpired(now time.Time) bool {
	return s.Status == SubscriptionStatusExpired || !s.EndDate.After(now)
}

func (s *VendorSubscription) IsExpiringSoon(now time.Time, thresholdDays int) bool {
	days := s.DaysUntilExpiration(now)
	return days > 0 && days <= thresholdDays
}

// ComputeStatus is the effective status: a passed end date wins over
// whatever is stored.
func (s *VendorSubscription) ComputeStatus(now time.Time) SubscriptionStatus {
	if !s.EndDate.After(now) {
		return SubscriptionStatusExpired
	}
	return s.Status
}

// IsOperational reports whether dependent resources (stations, premium
// add-ons) may be changed under this subscription.
func (s *VendorSubscription) IsOperational(now time.Time) bool {
	return s.ComputeStatus(now) == SubscriptionStatusActive
}

// Duration is a calendar-day approximated extension length.
type Duration struct {
	Days   int
	Months int
	Years  int
}

func (d Duration) IsZero() bool {
	return d.Days <= 0 && d.Months <= 0 && d.Years <= 0
}

// TotalDays uses 30-day months and 365-day years.
func (d Duration) TotalDays() int {
	total := 0
	if d.Days > 0 {
		total += d.Days
	}
	if d.Months > 0 {
		total += d.Months * 30
	}
	if d.Years > 0 {
		total += d.Years * 365
	}
	return total
}
