package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitImage is one stored photo of a unit.
type UnitImage struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UnitID      string    `gorm:"type:varchar(36);not null;index" json:"unitId"`
	URL         string    `gorm:"not null" json:"url"`
	Key         string    `gorm:"not null" json:"-"` // object storage key
	ContentType string    `gorm:"size:50" json:"contentType"`
	Size        int64     `json:"size"`
	OrderIndex  int       `gorm:"default:0" json:"orderIndex"`
}

func (i *UnitImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
