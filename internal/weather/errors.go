package weather

import "errors"

var (
	// ErrCityNotFound is returned when no city matches the requested name.
	ErrCityNotFound = errors.New("city not found")
	// ErrNoReports is returned when a city exists but has no weather reports.
	ErrNoReports = errors.New("no weather reports found")
	// ErrInvalidTimestamp is returned for timestamp text that is not ISO-8601.
	ErrInvalidTimestamp = errors.New("invalid timestamp format")
	// ErrInvalidConditionType is returned when a condition name maps to no known type.
	ErrInvalidConditionType = errors.New("invalid condition type")
	// ErrInvalidReport is returned when report values are out of range.
	ErrInvalidReport = errors.New("invalid report")
	// ErrInternal wraps unexpected failures from the store or elsewhere.
	ErrInternal = errors.New("internal error")

	ErrNoProviders = errors.New("no weather providers configured")
	ErrNoReadings  = errors.New("no successful provider readings")
	ErrNoGeocoder  = errors.New("no geocoder configured")
)
