package types

import (
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
)

// MaxUnitImages caps the images a unit may hold after an edit is applied.
const MaxUnitImages = 10

var UnitTypes = []string{
	"Villa", "Apartment", "Duplex", "Penthouse", "Townhouse",
	"Studio", "Chalet", "Warehouse", "Office", "Shop",
}

var UnitStatuses = []string{
	"Available", "Sold", "Rented", "Reserved", "Under Maintenance",
}

type NearbyPlace struct {
	Place         string `json:"place" validate:"required,min=2"`
	TimeInMinutes int    `json:"timeInMinutes" validate:"gte=1"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// UnitInput is the "data" part of the unit multipart form. Add and edit share
// one rule set.
type UnitInput struct {
	Lang         lang.Lang       `json:"lang"`
	CategoryID   string          `json:"categoryId,omitempty"`
	Title        string          `json:"title" validate:"required,min=3,script"`
	Type         string          `json:"type" validate:"required,unittype"`
	Price        float64         `json:"price" validate:"gte=1"`
	Area         float64         `json:"area" validate:"gte=1"`
	Rooms        int             `json:"rooms" validate:"gte=0"`
	Bathrooms    int             `json:"bathrooms" validate:"gte=0"`
	Livingrooms  int             `json:"livingrooms" validate:"gte=0"`
	Elevators    int             `json:"elevators" validate:"gte=0"`
	Parking      int             `json:"parking" validate:"gte=0"`
	Guard        int             `json:"guard" validate:"gte=0"`
	WaterTank    int             `json:"waterTank" validate:"gte=0"`
	MaidRoom     int             `json:"maidRoom" validate:"gte=0"`
	Cameras      int             `json:"cameras" validate:"gte=0"`
	Floor        int             `json:"floor" validate:"gte=0"`
	Location     string          `json:"location" validate:"required,min=3,script"`
	Coordinates  geo.Coordinates `json:"coordinates"`
	Description  string          `json:"description" validate:"required,min=10,richscript"`
	Status       string          `json:"status" validate:"required,unitstatus"`
	NearbyPlaces []NearbyPlace   `json:"nearbyPlaces" validate:"dive"`
}

// UnitUpdate extends UnitInput with the image bookkeeping of an edit.
type UnitUpdate struct {
	UnitInput
	ExistingImages []string `json:"existingImages"`
	RemovedImages  []string `json:"removedImages"`
}

type UnitResponse struct {
	ID           string          `json:"id"`
	Lang         lang.Lang       `json:"lang"`
	CategoryID   string          `json:"categoryId"`
	Title        string          `json:"title"`
	Type         string          `json:"type"`
	Price        float64         `json:"price"`
	Area         float64         `json:"area"`
	Rooms        int             `json:"rooms"`
	Bathrooms    int             `json:"bathrooms"`
	Livingrooms  int             `json:"livingrooms"`
	Elevators    int             `json:"elevators"`
	Parking      int             `json:"parking"`
	Guard        int             `json:"guard"`
	WaterTank    int             `json:"waterTank"`
	MaidRoom     int             `json:"maidRoom"`
	Cameras      int             `json:"cameras"`
	Floor        int             `json:"floor"`
	Location     string          `json:"location"`
	Coordinates  geo.Coordinates `json:"coordinates"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	NearbyPlaces []NearbyPlace   `json:"nearbyPlaces"`
	Images       []Image         `json:"images"`
}
