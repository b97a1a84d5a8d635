package types

import "github.com/raf-alpha/api-go/lang"

var BlogStatuses = []string{"draft", "published", "archived"}

type ReviewInput struct {
	Lang        lang.Lang `json:"lang"`
	Name        string    `json:"name" validate:"required,script"`
	Country     string    `json:"country" validate:"required"`
	Description string    `json:"description" validate:"required,richscript"`
	Rate        int       `json:"rate" validate:"gte=1,lte=5"`
	Image       *Upload   `json:"image,omitempty" validate:"omitempty"`
}

type FAQInput struct {
	Lang     lang.Lang `json:"lang"`
	Question string    `json:"question" validate:"required,script"`
	Answer   string    `json:"answer" validate:"required,richscript"`
}

type BlogPostInput struct {
	Lang          lang.Lang `json:"lang"`
	Title         string    `json:"title" validate:"required,max=200,script"`
	Description   string    `json:"description" validate:"required"`
	Excerpt       string    `json:"excerpt,omitempty" validate:"max=500"`
	Keywords      []string  `json:"Keywords,omitempty"`
	Category      string    `json:"category,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Status        string    `json:"status" validate:"omitempty,oneof=draft published archived"`
	AllowComments *bool     `json:"allowComments,omitempty"`
	Featured      bool      `json:"featured"`
	Image         *Upload   `json:"image,omitempty" validate:"omitempty"`
}

// Normalize fills in the defaults of an incoming blog post.
func (b *BlogPostInput) Normalize() {
	if b.Status == "" {
		b.Status = "draft"
	}
	if b.AllowComments == nil {
		allow := true
		b.AllowComments = &allow
	}
}
