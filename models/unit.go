package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raf-alpha/api-go/types"
	"gorm.io/gorm"
)

type Unit struct {
	ID           string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt      `json:"-" gorm:"index"`
	Lang         string              `json:"lang" gorm:"not null;type:varchar(2);index"`
	CategoryID   string              `json:"categoryId" gorm:"type:varchar(36);index"`
	Title        string              `json:"title" gorm:"not null"`
	Type         string              `json:"type" gorm:"not null;type:varchar(20)"`
	Price        float64             `json:"price" gorm:"not null"`
	Area         float64             `json:"area" gorm:"not null"`
	Rooms        int                 `json:"rooms"`
	Bathrooms    int                 `json:"bathrooms"`
	Livingrooms  int                 `json:"livingrooms"`
	Elevators    int                 `json:"elevators"`
	Parking      int                 `json:"parking"`
	Guard        int                 `json:"guard"`
	WaterTank    int                 `json:"waterTank"`
	MaidRoom     int                 `json:"maidRoom"`
	Cameras      int                 `json:"cameras"`
	Floor        int                 `json:"floor"`
	Location     string              `json:"location" gorm:"not null"`
	Latitude     float64             `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude    float64             `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	Description  string              `json:"description" gorm:"type:text"`
	Status       string              `json:"status" gorm:"not null;type:varchar(20);default:'Available'"`
	NearbyPlaces []types.NearbyPlace `json:"nearbyPlaces" gorm:"serializer:json;type:jsonb"`
	Images       []UnitImage         `json:"images" gorm:"foreignKey:UnitID"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
