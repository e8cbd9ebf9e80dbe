package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-reports/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no
// API key but only works for places with coordinates.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{Client: client, Backoff: DefaultBackoff},
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, place weather.Place) (weather.ProviderReading, error) {
	if place.Lat == nil || place.Lon == nil {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", *place.Lat))
	values.Set("longitude", fmt.Sprintf("%f", *place.Lon))
	values.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	values.Set("timezone", "UTC")

	var payload struct {
		Current struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	// Open-Meteo reports "2006-01-02T15:04" in the requested zone.
	ts, err := weather.ParseTimestamp(payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.Current.Temperature,
		HumidityPct:  payload.Current.Humidity,
		Condition:    mapOpenMeteoCondition(payload.Current.WeatherCode, payload.Current.WindSpeed),
	}, nil
}

// mapOpenMeteoCondition maps WMO weather codes. Wind speed is in km/h.
func mapOpenMeteoCondition(code int, windKmh float64) weather.ConditionType {
	switch {
	case code >= 95:
		return weather.ConditionStormy
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return weather.ConditionSnowy
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRainy
	case code == 45 || code == 48:
		return weather.ConditionFoggy
	case windKmh >= 50:
		return weather.ConditionWindy
	case code == 0 || code == 1:
		return weather.ConditionSunny
	case code == 2 || code == 3:
		return weather.ConditionCloudy
	default:
		return ""
	}
}
