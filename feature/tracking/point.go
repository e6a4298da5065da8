package tracking

import (
	"strings"

	"freight-relay/core/apperr"
	"freight-relay/core/normalize"
	"freight-relay/core/utils"
)

// DefaultDriverID is recorded when SKY sends no driver.
const DefaultDriverID = "DRIVER_001"

// History limits.
const (
	DefaultHistoryLimit = 300
	MaxHistoryLimit     = 2000
)

// Point is one live position of a freight order.
type Point struct {
	FoID      string   `json:"FoId"`
	DriverID  string   `json:"DriverId"`
	Latitude  float64  `json:"Latitude"`
	Longitude float64  `json:"Longitude"`
	Accuracy  *float64 `json:"Accuracy"`
	// Timestamp is the device time in epoch milliseconds.
	Timestamp int64    `json:"Timestamp"`
	Speed     *float64 `json:"Speed"`
	Bearing   *float64 `json:"Bearing"`
}

// LocationPayload is a position pushed by SKY. Numbers may arrive as strings.
type LocationPayload struct {
	FoID      any `json:"FoId" swaggertype:"string"`
	DriverID  any `json:"DriverId" swaggertype:"string"`
	Latitude  any `json:"Latitude" swaggertype:"number"`
	Longitude any `json:"Longitude" swaggertype:"number"`
	Accuracy  any `json:"Accuracy" swaggertype:"number"`
	Timestamp any `json:"Timestamp" swaggertype:"integer"`
	Speed     any `json:"Speed" swaggertype:"number"`
	Bearing   any `json:"Bearing" swaggertype:"number"`
}

// ToPoint validates p. FoId, Latitude, Longitude and Timestamp are required.
func (p LocationPayload) ToPoint() (Point, error) {
	foID := normalize.NormalizeOrderIdentifier(utils.ToString(p.FoID))
	lat, latOK := number(p.Latitude)
	lng, lngOK := number(p.Longitude)
	ts, tsOK := number(p.Timestamp)
	if foID == "" || !latOK || !lngOK || !tsOK {
		return Point{}, apperr.MissingFields("FoId, Latitude, Longitude, Timestamp")
	}

	driver := strings.TrimSpace(utils.ToString(p.DriverID))
	if driver == "" {
		driver = DefaultDriverID
	}
	return Point{
		FoID:      foID,
		DriverID:  driver,
		Latitude:  lat,
		Longitude: lng,
		Accuracy:  optional(p.Accuracy),
		Timestamp: int64(ts),
		Speed:     optional(p.Speed),
		Bearing:   optional(p.Bearing),
	}, nil
}

// ClampLimit applies the history limit bounds. Zero means the default;
// negative limits clamp to 1.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultHistoryLimit
	case limit < 1:
		return 1
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}

func number(v any) (float64, bool) {
	d := utils.ToDecimal(v)
	if !d.Valid {
		return 0, false
	}
	f, _ := d.Decimal.Float64()
	return f, true
}

func optional(v any) *float64 {
	f, ok := number(v)
	if !ok {
		return nil
	}
	return &f
}
