package specification

import (
	"time"

	"gorm.io/gorm"
)

// LapsedBefore matches rows still marked active whose end date has passed.
type LapsedBefore struct {
	Now time.Time
}

func (s LapsedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND end_date < ?", "active", s.Now)
}

// EndingBetween matches active rows whose end date falls inside [From, To].
type EndingBetween struct {
	From time.Time
	To   time.Time
}

func (s EndingBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND end_date >= ? AND end_date <= ?", "active", s.From, s.To)
}
