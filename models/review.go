package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Lang        string         `gorm:"not null;type:varchar(2);index" json:"lang"`
	Name        string         `gorm:"not null" json:"name"`
	Country     string         `gorm:"not null" json:"country"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Rate        int            `gorm:"not null;check:rate between 1 and 5" json:"rate"`
	Image       string         `json:"image"`
	ImageKey    string         `json:"-"`
}

type FAQ struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Lang      string         `gorm:"not null;type:varchar(2);index" json:"lang"`
	Question  string         `gorm:"not null" json:"question"`
	Answer    string         `gorm:"type:text;not null" json:"answer"`
}
