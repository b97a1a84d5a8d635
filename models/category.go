package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Lang        string         `json:"lang" gorm:"not null;type:varchar(2);index"`
	Title       string         `json:"title" gorm:"not null"`
	Area        float64        `json:"area" gorm:"not null;default:0"`
	Location    string         `json:"location" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Latitude    float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude   float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	Image       string         `json:"image"`
	ImageKey    string         `json:"-"`
	Units       []Unit         `json:"units,omitempty" gorm:"foreignKey:CategoryID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
