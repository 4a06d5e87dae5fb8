// Package geo computes great-circle distances between
// coordinates, used to show how far donors, hospitals
// and blood banks are from a reference location.
package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/grid"
)

// EarthRadiusKm is the mean earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

// Valid returns true if the latitude and longitude
// are within their ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the haversine distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// FormatKm formats a distance with one decimal.
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64) + " km"
}

// DistanceColumn returns a sortable grid column with the distance
// of every record from origin. Records that locate returns false
// for have no distance and sort like null values.
func DistanceColumn[T any](key, title string, origin Point, locate func(record T) (Point, bool)) grid.Column[T] {
	value := func(record T) any {
		p, ok := locate(record)
		if !ok || !p.Valid() {
			return nil
		}
		return Distance(origin, p)
	}
	return grid.Column[T]{
		Key:      key,
		Title:    title,
		Sortable: true,
		Value:    value,
		Render: func(record T) any {
			km, ok := value(record).(float64)
			if !ok {
				return nil
			}
			return FormatKm(km)
		},
	}
}

// LocateFields returns a locate function for DistanceColumn
// reading the coordinates from the record fields latKey and lngKey.
// Numeric fields and numeric strings are supported.
func LocateFields[T any](latKey, lngKey string, naming *retable.StructFieldNaming) func(record T) (Point, bool) {
	if naming == nil {
		naming = &retable.DefaultStructFieldNaming
	}
	return func(record T) (Point, bool) {
		lat, ok := retable.RecordField(record, latKey, naming)
		if !ok {
			return Point{}, false
		}
		lng, ok := retable.RecordField(record, lngKey, naming)
		if !ok {
			return Point{}, false
		}
		var p Point
		if p.Lat, ok = toFloat(lat); !ok {
			return Point{}, false
		}
		if p.Lng, ok = toFloat(lng); !ok {
			return Point{}, false
		}
		return p, true
	}
}

func toFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
