// Package location resolves monitored city names to coordinates.
package location

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/climatesense/climatesense/internal/weather"
)

// Resolver turns a "City,CC" location into latitude and longitude using the
// Google geocoding API. It is feature-flagged: without an API key every
// lookup reports not-found and callers fall back to coordinates embedded in
// weather snapshots.
type Resolver struct {
	mu      sync.Mutex
	enabled bool
	cache   map[string][2]float64
	logger  *slog.Logger
}

func NewResolver(apiKey string, logger *slog.Logger) *Resolver {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &Resolver{
		enabled: apiKey != "",
		cache:   make(map[string][2]float64),
		logger:  logger,
	}
}

func (r *Resolver) Enabled() bool { return r.enabled }

// Resolve returns the coordinates for loc. Results are cached for the
// lifetime of the process; city coordinates do not move.
func (r *Resolver) Resolve(loc weather.Location) (lat, lon float64, err error) {
	if !r.enabled {
		return 0, 0, fmt.Errorf("geocoding is not configured")
	}

	r.mu.Lock()
	if coords, ok := r.cache[loc.Key()]; ok {
		r.mu.Unlock()
		return coords[0], coords[1], nil
	}
	r.mu.Unlock()

	address := geocoder.Address{City: loc.City, Country: loc.Country}
	result, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %s: %w", loc.Key(), err)
	}

	r.mu.Lock()
	r.cache[loc.Key()] = [2]float64{result.Latitude, result.Longitude}
	r.mu.Unlock()

	r.logger.Debug("geocoded location", "location", loc.Key(), "lat", result.Latitude, "lon", result.Longitude)
	return result.Latitude, result.Longitude, nil
}
