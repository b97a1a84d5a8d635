package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	FirstName     string         `gorm:"size:50;not null" json:"firstName"`
	MiddleName    string         `gorm:"size:50" json:"middleName"`
	LastName      string         `gorm:"size:50;not null" json:"lastName"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string         `gorm:"size:20" json:"phone"`
	Password      string         `gorm:"not null" json:"-"`
	Role          string         `gorm:"size:20;not null;default:'Admin'" json:"role"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	LastLoginAt   *time.Time     `json:"lastLoginAt,omitempty"`
}

func (u *User) FullName() string {
	return strings.Join(strings.Fields(u.FirstName+" "+u.MiddleName+" "+u.LastName), " ")
}
