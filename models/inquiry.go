package models

import (
	"time"
)

// Subscription is a newsletter sign-up from the public site.
type Subscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"isRead"`
}

// Interested is a lead left on a unit page.
type Interested struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Email     string    `json:"email"`
	UnitID    string    `gorm:"type:varchar(36);index" json:"unitId"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"isRead"`
}

// Consultation is a booking request for a call with an agent.
type Consultation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Email     string    `json:"email"`
	Message   string    `gorm:"type:text" json:"message"`
	Date      string    `json:"date"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"isRead"`
}
