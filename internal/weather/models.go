package weather

import (
	"time"

	"github.com/google/uuid"
)

// ConditionType is the normalized category of a weather condition.
type ConditionType string

const (
	ConditionSunny  ConditionType = "sunny"
	ConditionCloudy ConditionType = "cloudy"
	ConditionRainy  ConditionType = "rainy"
	ConditionSnowy  ConditionType = "snowy"
	ConditionFoggy  ConditionType = "foggy"
	ConditionWindy  ConditionType = "windy"
	ConditionStormy ConditionType = "stormy"
)

// IntensityLevel grades how strong a condition is.
type IntensityLevel string

const (
	IntensityNone     IntensityLevel = "none"
	IntensityLight    IntensityLevel = "light"
	IntensityModerate IntensityLevel = "moderate"
	IntensityHeavy    IntensityLevel = "heavy"
	IntensitySevere   IntensityLevel = "severe"
)

// TemperatureUnit is the scale a report temperature is expressed in.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
	Kelvin     TemperatureUnit = "kelvin"
)

// Entity is implemented by every record kept in a store collection.
// Implementations must be plain value types so that copying the value
// yields an independent record.
type Entity interface {
	EntityID() uuid.UUID
}

// Location is a physical place reports are recorded for.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Elevation float64   `json:"elevation"`
	Timezone  string    `json:"timezone" validate:"required"`
}

func (l Location) EntityID() uuid.UUID { return l.ID }

// City is a named place people ask about. Several cities may share a location.
type City struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Country    string    `json:"country" validate:"required"`
	LocationID uuid.UUID `json:"location_id"`
}

func (c City) EntityID() uuid.UUID { return c.ID }

// Condition describes observed weather, e.g. "Light Rain".
type Condition struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name" validate:"required"`
	Type      ConditionType  `json:"type" validate:"oneof=sunny cloudy rainy snowy foggy windy stormy"`
	Intensity IntensityLevel `json:"intensity" validate:"oneof=none light moderate heavy severe"`
}

func (c Condition) EntityID() uuid.UUID { return c.ID }

// Report is a single weather observation at a location.
type Report struct {
	ID              uuid.UUID       `json:"id"`
	LocationID      uuid.UUID       `json:"location_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Source          string          `json:"source" validate:"required"`
	Temperature     float64         `json:"temperature"`
	TemperatureUnit TemperatureUnit `json:"temperature_unit" validate:"oneof=celsius fahrenheit kelvin"`
	Humidity        float64         `json:"humidity" validate:"gte=0,lte=100"`
}

func (r Report) EntityID() uuid.UUID { return r.ID }

// ReportCondition links a report to a condition.
type ReportCondition struct {
	ID          uuid.UUID `json:"id"`
	ReportID    uuid.UUID `json:"report_id"`
	ConditionID uuid.UUID `json:"condition_id"`
}

func (rc ReportCondition) EntityID() uuid.UUID { return rc.ID }

// ReportView is a report as returned to callers: the stored fields plus the
// city it was requested for and the name of its linked condition, if any.
type ReportView struct {
	ID              uuid.UUID       `json:"id"`
	LocationID      uuid.UUID       `json:"location_id"`
	City            string          `json:"city"`
	Timestamp       time.Time       `json:"timestamp"`
	Source          string          `json:"source"`
	Temperature     float64         `json:"temperature"`
	TemperatureUnit TemperatureUnit `json:"temperature_unit"`
	Humidity        float64         `json:"humidity"`
	Condition       string          `json:"condition,omitempty"`
}

func newReportView(r Report, city, condition string) ReportView {
	return ReportView{
		ID:              r.ID,
		LocationID:      r.LocationID,
		City:            city,
		Timestamp:       r.Timestamp,
		Source:          r.Source,
		Temperature:     r.Temperature,
		TemperatureUnit: r.TemperatureUnit,
		Humidity:        r.Humidity,
		Condition:       condition,
	}
}

// CitySummary is the latest weather for one city.
type CitySummary struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Humidity    float64   `json:"humidity"`
}

// Summaries lists the latest weather for every city that has reports.
type Summaries struct {
	Cities []CitySummary `json:"cities"`
}

// NewReport is the input for AddWeatherReport. Timestamp and Condition are
// optional; an empty Timestamp means "now".
type NewReport struct {
	City        string
	Temperature float64
	Timestamp   string
	Condition   string
	Humidity    float64
}

// ReportUpdate carries the fields to change on a city's latest report.
// Nil fields are left as they are.
type ReportUpdate struct {
	Timestamp   *string
	Temperature *float64
	Humidity    *float64
	Condition   *string
}
