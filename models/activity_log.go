package models

import (
	"time"
)

// ActivityLog records an admin action on a dashboard entity.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Activity  string    `json:"activity" gorm:"not null;type:varchar(50)"` // "unit_created", "category_updated", ...
	Entity    string    `json:"entity" gorm:"not null;type:varchar(30)"`
	EntityID  string    `json:"entityId" gorm:"type:varchar(64);index"`
	Lang      string    `json:"lang" gorm:"type:varchar(2)"`
}
