package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// String renders the coordinates with six decimals, e.g. "10.850500, 76.271100".
func (l Location) String() string {
	return fmt.Sprintf("%.6f, %.6f", l.Lat, l.Lng)
}

// IsValid reports whether the coordinates are within WGS84 bounds.
func (l Location) IsValid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// DistanceKm returns the great-circle distance between l and other.
func (l Location) DistanceKm(other Location) float64 {
	lat1 := l.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - l.Lat) * math.Pi / 180
	dLng := (other.Lng - l.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// MapLink returns a Google Maps URL centred on l.
func (l Location) MapLink() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", l.Lat, l.Lng)
}

// MapLinkZoom is MapLink opened at the given zoom level. Zero leaves the
// zoom to the map.
func (l Location) MapLinkZoom(zoom int) string {
	if zoom <= 0 {
		return l.MapLink()
	}
	return fmt.Sprintf("%s&z=%d", l.MapLink(), zoom)
}

// Place is a named location returned by a search or reverse lookup.
type Place struct {
	Name     string
	Type     string
	Location Location
}
