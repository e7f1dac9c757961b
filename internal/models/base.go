package models

import "time"

// BaseModel is the column set shared by every table. It intentionally has no
// DeletedAt: rows are removed for real so database-level cascades fire and
// unique indexes stay reusable.
type BaseModel struct {
	ID        uint `gorm:"primarykey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
