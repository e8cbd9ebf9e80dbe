package store

import (
	"github.com/i474232898/weather-reports/internal/weather"
)

// MemoryStore is the process-local data store: one collection per entity type.
// Build it once at startup and hand Repositories() to the service.
type MemoryStore struct {
	Locations        *LocationStore
	Cities           *CityStore
	Conditions       *ConditionStore
	Reports          *ReportStore
	ReportConditions *ReportConditionStore
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Locations:        NewLocationStore(),
		Cities:           NewCityStore(),
		Conditions:       NewConditionStore(),
		Reports:          NewReportStore(),
		ReportConditions: NewReportConditionStore(),
	}
}

// Ensure interfaces are met.
var (
	_ weather.LocationRepository        = (*LocationStore)(nil)
	_ weather.CityRepository            = (*CityStore)(nil)
	_ weather.ConditionRepository       = (*ConditionStore)(nil)
	_ weather.ReportRepository          = (*ReportStore)(nil)
	_ weather.ReportConditionRepository = (*ReportConditionStore)(nil)
)

// Repositories exposes the collections through the service contracts.
func (m *MemoryStore) Repositories() weather.Repositories {
	return weather.Repositories{
		Locations:        m.Locations,
		Cities:           m.Cities,
		Conditions:       m.Conditions,
		Reports:          m.Reports,
		ReportConditions: m.ReportConditions,
	}
}

// Clear empties every collection.
func (m *MemoryStore) Clear() {
	m.Locations.Clear()
	m.Cities.Clear()
	m.Conditions.Clear()
	m.Reports.Clear()
	m.ReportConditions.Clear()
}

// Counts holds the number of entities per collection.
type Counts struct {
	Locations        int `json:"locations"`
	Cities           int `json:"cities"`
	Conditions       int `json:"conditions"`
	Reports          int `json:"reports"`
	ReportConditions int `json:"report_conditions"`
}

func (m *MemoryStore) Counts() Counts {
	return Counts{
		Locations:        m.Locations.Len(),
		Cities:           m.Cities.Len(),
		Conditions:       m.Conditions.Len(),
		Reports:          m.Reports.Len(),
		ReportConditions: m.ReportConditions.Len(),
	}
}
