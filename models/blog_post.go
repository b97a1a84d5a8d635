package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type BlogPost struct {
	gorm.Model
	Lang          string         `json:"lang" gorm:"not null;type:varchar(2);index"`
	Title         string         `json:"title" gorm:"not null;size:200"`
	Description   string         `json:"description" gorm:"type:text"`
	Excerpt       string         `json:"excerpt" gorm:"size:500"`
	Keywords      pq.StringArray `json:"Keywords" gorm:"type:text[]"`
	Category      string         `json:"category"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	Image         string         `json:"image"`
	ImageKey      string         `json:"-"`
	Status        string         `json:"status" gorm:"not null;type:varchar(10);default:'draft'"`
	AllowComments bool           `json:"allowComments" gorm:"default:true"`
	Featured      bool           `json:"featured" gorm:"default:false"`
	AuthorID      uint           `json:"authorId"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
}
