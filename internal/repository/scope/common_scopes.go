package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// Open restricts settlement requests to those still awaiting payment.
func Open(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "processing")
}
