package store

import (
	"sort"

	"github.com/google/uuid"

	"github.com/i474232898/weather-reports/internal/weather"
)

// LocationStore holds locations.
type LocationStore struct {
	*Collection[weather.Location]
}

func NewLocationStore() *LocationStore {
	return &LocationStore{NewCollection[weather.Location]("locations")}
}

// FindByName returns the first location with exactly this name.
func (s *LocationStore) FindByName(name string) (weather.Location, bool) {
	return s.first(func(l weather.Location) bool { return l.Name == name })
}

// CityStore holds cities.
type CityStore struct {
	*Collection[weather.City]
}

func NewCityStore() *CityStore {
	return &CityStore{NewCollection[weather.City]("cities")}
}

// FindByName returns the first city with exactly this name.
func (s *CityStore) FindByName(name string) (weather.City, bool) {
	return s.first(func(c weather.City) bool { return c.Name == name })
}

func (s *CityStore) FindByLocationID(locationID uuid.UUID) []weather.City {
	return s.filter(func(c weather.City) bool { return c.LocationID == locationID })
}

// ConditionStore holds conditions.
type ConditionStore struct {
	*Collection[weather.Condition]
}

func NewConditionStore() *ConditionStore {
	return &ConditionStore{NewCollection[weather.Condition]("conditions")}
}

func (s *ConditionStore) FindByName(name string) (weather.Condition, bool) {
	return s.first(func(c weather.Condition) bool { return c.Name == name })
}

// ReportStore holds reports.
type ReportStore struct {
	*Collection[weather.Report]
}

func NewReportStore() *ReportStore {
	return &ReportStore{NewCollection[weather.Report]("reports")}
}

// FindByLocationID returns the reports of a location newest first. Reports
// with equal timestamps keep their insertion order. With latestOnly at most
// one report is returned.
func (s *ReportStore) FindByLocationID(locationID uuid.UUID, latestOnly bool) []weather.Report {
	reports := s.filter(func(r weather.Report) bool { return r.LocationID == locationID })
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	if latestOnly && len(reports) > 1 {
		return reports[:1]
	}
	return reports
}

// ReportConditionStore holds report/condition links.
type ReportConditionStore struct {
	*Collection[weather.ReportCondition]
}

func NewReportConditionStore() *ReportConditionStore {
	return &ReportConditionStore{NewCollection[weather.ReportCondition]("report_conditions")}
}

func (s *ReportConditionStore) FindByReportID(reportID uuid.UUID) []weather.ReportCondition {
	return s.filter(func(rc weather.ReportCondition) bool { return rc.ReportID == reportID })
}

func (s *ReportConditionStore) FindByConditionID(conditionID uuid.UUID) []weather.ReportCondition {
	return s.filter(func(rc weather.ReportCondition) bool { return rc.ConditionID == conditionID })
}
