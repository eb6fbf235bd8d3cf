package weather

import (
	"strings"
	"time"
)

// Location represents a logical place for which we monitor conditions.
// It is usually parsed from a "City,CC" directive string.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ParseLocation splits a "City,CC" directive string into a Location.
// A missing country qualifier leaves Country empty.
func ParseLocation(s string) Location {
	parts := strings.SplitN(s, ",", 2)
	loc := Location{City: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		loc.Country = strings.TrimSpace(parts[1])
	}
	return loc
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Snapshot is the normalized current-conditions view for one fetch cycle.
// It is immutable once produced by the weather fetcher.
type Snapshot struct {
	Location     Location  `json:"location"`
	ObservedAt   time.Time `json:"observed_at"` // always UTC, from the source epoch
	TemperatureC float64   `json:"temp_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	WindSpeedMS  float64   `json:"wind_speed_ms"`
	PressureHpa  float64   `json:"pressure_hpa"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Sunrise      time.Time `json:"sunrise,omitzero"`
	Sunset       time.Time `json:"sunset,omitzero"`
}

// HasCoordinates reports whether the snapshot carries a usable coordinate.
func (s Snapshot) HasCoordinates() bool {
	return s.Lat != 0 || s.Lon != 0
}

// ForecastSample is one fine-grained (sub-daily, typically 3-hour) forecast
// record as delivered by the source. Sample order is not guaranteed.
type ForecastSample struct {
	Timestamp  time.Time `json:"timestamp"`
	TempMinC   float64   `json:"temp_min"`
	TempMaxC   float64   `json:"temp_max"`
	Icon       string    `json:"icon"`
	PrecipProb float64   `json:"pop"` // probability of precipitation, 0-1
}

// DailySummary reduces one calendar day's forecast samples to a single record.
type DailySummary struct {
	Date          time.Time `json:"dt"` // anchor: first sample's timestamp for the day
	TempMinC      float64   `json:"temp_min"`
	TempMaxC      float64   `json:"temp_max"`
	Icon          string    `json:"icon"` // most frequent icon code for the day
	MaxPrecipProb float64   `json:"pop"`  // max across the day's samples
}

// AirQualityReading is the raw pollutant reading from the air-quality source.
// Index follows the 1 (good) to 5 (very poor) scale; 0 means unavailable.
type AirQualityReading struct {
	Index         int  `json:"index"`
	ForecastIndex *int `json:"forecast_index,omitempty"` // next-day index, nil when unavailable
}
