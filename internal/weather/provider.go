package weather

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into one report.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	HumidityPct  float64
	Condition    ConditionType
}

// Place identifies what a provider should fetch. Lat/Lon are nil until the
// location has been geocoded.
type Place struct {
	City    string
	Country string
	Lat     *float64
	Lon     *float64
}

// Provider abstracts an upstream weather data source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, place Place) (ProviderReading, error)
}

// Coordinates is a geocoding result.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a city to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (Coordinates, error)
}

// Repository is the contract every entity collection satisfies.
type Repository[T Entity] interface {
	Add(entity T) (T, error)
	GetByID(id uuid.UUID) (T, bool)
	GetAll() []T
	Update(entity T) (T, error)
	Delete(id uuid.UUID) bool
	Clear()
}

type LocationRepository interface {
	Repository[Location]
	FindByName(name string) (Location, bool)
}

type CityRepository interface {
	Repository[City]
	FindByName(name string) (City, bool)
	FindByLocationID(locationID uuid.UUID) []City
}

type ConditionRepository interface {
	Repository[Condition]
	FindByName(name string) (Condition, bool)
}

type ReportRepository interface {
	Repository[Report]
	// FindByLocationID returns reports newest first; latestOnly trims the
	// result to at most one report.
	FindByLocationID(locationID uuid.UUID, latestOnly bool) []Report
}

type ReportConditionRepository interface {
	Repository[ReportCondition]
	FindByReportID(reportID uuid.UUID) []ReportCondition
	FindByConditionID(conditionID uuid.UUID) []ReportCondition
}

// Repositories bundles the collections the Service works with.
type Repositories struct {
	Locations        LocationRepository
	Cities           CityRepository
	Conditions       ConditionRepository
	Reports          ReportRepository
	ReportConditions ReportConditionRepository
}
