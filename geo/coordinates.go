package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// mapsAt matches the "@lat,lng" segment of a Google Maps share link.
var mapsAt = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ExtractCoordinates pulls the first "@lat,lng" pair out of s. It reports false
// when s carries no such pair; values are not range checked here.
func ExtractCoordinates(s string) (Coordinates, bool) {
	m := mapsAt.FindStringSubmatch(s)
	if m == nil {
		return Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Coordinates{}, false
	}

	return Coordinates{Latitude: lat, Longitude: lng}, true
}

// Apply replaces both fields with the pair found in pasted. When pasted has no
// pair the receiver is returned unchanged.
func (c Coordinates) Apply(pasted string) (Coordinates, bool) {
	next, ok := ExtractCoordinates(pasted)
	if !ok {
		return c, false
	}
	return next, true
}

// Parse reads a latitude/longitude pair from two form values.
func Parse(lat, lng string) (Coordinates, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}
	return Coordinates{Latitude: la, Longitude: lo}, nil
}

func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
}
