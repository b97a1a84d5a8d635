package types

import "github.com/raf-alpha/api-go/lang"

// Upload describes a file part of a multipart form before it reaches storage.
type Upload struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType" validate:"startswith=image/"`
	Size        int64  `json:"size" validate:"gt=0"`
}

type CategoryInput struct {
	Lang           lang.Lang `json:"lang" form:"lang"`
	Title          string    `json:"title" form:"title" validate:"required,script"`
	Area           float64   `json:"area" form:"area" validate:"gte=0"`
	Location       string    `json:"location" form:"location" validate:"required,script"`
	Description    string    `json:"description" form:"description" validate:"required,richscript"`
	Latitude       float64   `json:"latitude" form:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64   `json:"longitude" form:"longitude" validate:"gte=-180,lte=180"`
	GoogleMapsLink string    `json:"googleMapsLink,omitempty" form:"googleMapsLink" validate:"omitempty,url"`
	Image          *Upload   `json:"image,omitempty" form:"-" validate:"omitempty"`
}

type CategoryListQuery struct {
	Lang     string `form:"lang"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
