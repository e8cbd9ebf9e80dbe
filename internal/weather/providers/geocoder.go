package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-reports/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
type GoogleGeocoder struct {
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey. The key is
// process-wide, so only one GoogleGeocoder should be created.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		backoff: DefaultBackoff,
		circuit: newBreaker("geocoder"),
		lookup:  geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, city, country string) (weather.Coordinates, error) {
	if city == "" {
		return weather.Coordinates{}, errors.New("geocoder: city is required")
	}

	addr := geocoder.Address{City: city, Country: country}
	loc, err := callWithResilience(ctx, g.backoff, g.circuit, func(context.Context) (geocoder.Location, error) {
		return g.lookup(addr)
	})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocode %s: %w", city, err)
	}
	return weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}
