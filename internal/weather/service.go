package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	apiSource        = "API"
	unknownCountry   = "Unknown"
	placeholderZone  = "UTC"
	placeholderTitle = " Area"
)

var validate = validator.New()

// Service implements the weather report operations on top of the entity stores.
type Service struct {
	// mu serialises multi-collection writes: city creation, condition
	// relinking and report deletion.
	mu sync.Mutex

	repos     Repositories
	providers []Provider
	geocoder  Geocoder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithProviders sets the upstream providers used by IngestCity.
func WithProviders(providers ...Provider) Option {
	return func(s *Service) { s.providers = append(s.providers, providers...) }
}

// WithGeocoder sets the geocoder used by EnrichLocations.
func WithGeocoder(g Geocoder) Option {
	return func(s *Service) { s.geocoder = g }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(repos Repositories, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasProviders reports whether IngestCity can do anything.
func (s *Service) HasProviders() bool { return len(s.providers) > 0 }

// HasGeocoder reports whether EnrichLocations can do anything.
func (s *Service) HasGeocoder() bool { return s.geocoder != nil }

// AddWeatherReport records a new report for a city, creating the city and a
// placeholder location when the name has not been seen before.
func (s *Service) AddWeatherReport(in NewReport) (ReportView, error) {
	return s.addReport(in, apiSource)
}

func (s *Service) addReport(in NewReport, source string) (ReportView, error) {
	ts, err := resolveTimestamp(in.Timestamp, s.now)
	if err != nil {
		s.logger.Error("invalid timestamp", "city", in.City, "timestamp", in.Timestamp)
		return ReportView{}, err
	}

	report := Report{
		ID:              uuid.New(),
		Timestamp:       ts,
		Source:          source,
		Temperature:     in.Temperature,
		TemperatureUnit: Celsius,
		Humidity:        in.Humidity,
	}
	if err := validate.Struct(report); err != nil {
		return ReportView{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	city, err := s.findOrCreateCity(in.City)
	if err != nil {
		return ReportView{}, err
	}

	report.LocationID = city.LocationID
	created, err := s.repos.Reports.Add(report)
	if err != nil {
		return ReportView{}, internal("add report", err)
	}

	var conditionName string
	if in.Condition != "" {
		if err := s.linkCondition(created.ID, in.Condition); err != nil {
			s.logger.Warn("report stored without condition",
				"city", in.City, "report_id", created.ID, "condition", in.Condition, "error", err)
		} else {
			conditionName = in.Condition
		}
	}

	return newReportView(created, in.City, conditionName), nil
}

// GetAllCitySummaries returns the latest report of every city that has one.
func (s *Service) GetAllCitySummaries() (Summaries, error) {
	summaries := Summaries{Cities: []CitySummary{}}
	for _, city := range s.repos.Cities.GetAll() {
		latest := s.repos.Reports.FindByLocationID(city.LocationID, true)
		if len(latest) == 0 {
			continue
		}
		r := latest[0]
		summaries.Cities = append(summaries.Cities, CitySummary{
			City:        city.Name,
			Temperature: r.Temperature,
			Condition:   s.conditionFor(r.ID),
			Timestamp:   r.Timestamp,
			Humidity:    r.Humidity,
		})
	}
	return summaries, nil
}

// GetCityWeather returns the latest report for a city.
func (s *Service) GetCityWeather(cityName string) (ReportView, error) {
	_, latest, err := s.latestReport(cityName)
	if err != nil {
		return ReportView{}, err
	}
	return newReportView(latest, cityName, s.conditionFor(latest.ID)), nil
}

// UpdateCityWeather applies u to the latest report of a city. Nothing is
// changed when the new timestamp cannot be parsed.
func (s *Service) UpdateCityWeather(cityName string, u ReportUpdate) (ReportView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, report, err := s.latestReport(cityName)
	if err != nil {
		return ReportView{}, err
	}

	if u.Timestamp != nil && strings.TrimSpace(*u.Timestamp) != "" {
		ts, err := ParseTimestamp(*u.Timestamp)
		if err != nil {
			s.logger.Error("invalid timestamp", "city", cityName, "timestamp", *u.Timestamp)
			return ReportView{}, err
		}
		report.Timestamp = ts
	}
	if u.Temperature != nil {
		report.Temperature = *u.Temperature
	}
	if u.Humidity != nil {
		report.Humidity = *u.Humidity
	}
	if err := validate.Struct(report); err != nil {
		return ReportView{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	updated, err := s.repos.Reports.Update(report)
	if err != nil {
		return ReportView{}, internal("update report", err)
	}

	if u.Condition != nil && *u.Condition != "" {
		s.unlinkConditions(updated.ID)
		if err := s.linkCondition(updated.ID, *u.Condition); err != nil {
			s.logger.Warn("report updated without condition",
				"city", cityName, "report_id", updated.ID, "condition", *u.Condition, "error", err)
		}
	}

	return newReportView(updated, cityName, s.conditionFor(updated.ID)), nil
}

// DeleteCityWeather removes every report of a city along with its condition
// links. The city and its location are kept.
func (s *Service) DeleteCityWeather(cityName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	city, ok := s.repos.Cities.FindByName(cityName)
	if !ok {
		s.logger.Warn("city not found", "city", cityName)
		return fmt.Errorf("%w: %s", ErrCityNotFound, cityName)
	}

	reports := s.repos.Reports.FindByLocationID(city.LocationID, false)
	if len(reports) == 0 {
		s.logger.Warn("no weather reports found", "city", cityName)
		return fmt.Errorf("%w: %s", ErrNoReports, cityName)
	}

	for _, r := range reports {
		s.unlinkConditions(r.ID)
		s.repos.Reports.Delete(r.ID)
	}
	s.logger.Info("deleted weather reports", "city", cityName, "count", len(reports))
	return nil
}

// IngestCity fetches readings for a city from all providers concurrently,
// aggregates the successful ones and stores them as a single report.
func (s *Service) IngestCity(ctx context.Context, cityName string) (ReportView, error) {
	if len(s.providers) == 0 {
		return ReportView{}, ErrNoProviders
	}

	place := Place{City: cityName}
	if city, ok := s.repos.Cities.FindByName(cityName); ok {
		if city.Country != unknownCountry {
			place.Country = city.Country
		}
		if loc, ok := s.repos.Locations.GetByID(city.LocationID); ok && !isPlaceholder(loc, city.Name) {
			lat, lon := loc.Latitude, loc.Longitude
			place.Lat, place.Lon = &lat, &lon
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)
	for _, p := range s.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, place)
			if err != nil {
				// Partial success is fine.
				s.logger.Warn("provider fetch failed", "provider", p.Name(), "city", cityName, "error", err)
				return
			}
			if r.ProviderName == "" {
				r.ProviderName = p.Name()
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	if len(readings) == 0 {
		return ReportView{}, fmt.Errorf("%w for %s", ErrNoReadings, cityName)
	}
	sort.Slice(readings, func(i, j int) bool { return readings[i].ProviderName < readings[j].ProviderName })

	agg := AggregateReadings(readings)
	view, err := s.addReport(NewReport{
		City:        cityName,
		Temperature: agg.TemperatureC,
		Timestamp:   agg.Timestamp.Format(time.RFC3339Nano),
		Condition:   DisplayName(agg.Condition),
		Humidity:    agg.HumidityPct,
	}, agg.Source())
	if err != nil {
		return ReportView{}, err
	}
	s.logger.Info("ingested weather report", "city", cityName, "source", view.Source, "temperature", view.Temperature)
	return view, nil
}

// EnrichLocations geocodes the placeholder locations created for unknown
// cities and stores their coordinates. It returns how many were updated.
func (s *Service) EnrichLocations(ctx context.Context) (int, error) {
	if s.geocoder == nil {
		return 0, ErrNoGeocoder
	}

	updated := 0
	for _, city := range s.repos.Cities.GetAll() {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		loc, ok := s.repos.Locations.GetByID(city.LocationID)
		if !ok || !isPlaceholder(loc, city.Name) {
			continue
		}

		country := city.Country
		if country == unknownCountry {
			country = ""
		}
		coords, err := s.geocoder.Geocode(ctx, city.Name, country)
		if err != nil {
			s.logger.Warn("geocoding failed", "city", city.Name, "error", err)
			continue
		}

		loc.Latitude = coords.Latitude
		loc.Longitude = coords.Longitude
		if err := validate.Struct(loc); err != nil {
			s.logger.Warn("geocoder returned invalid coordinates", "city", city.Name, "error", err)
			continue
		}
		if _, err := s.repos.Locations.Update(loc); err != nil {
			return updated, internal("update location", err)
		}
		updated++
		s.logger.Info("location enriched", "city", city.Name, "latitude", loc.Latitude, "longitude", loc.Longitude)
	}
	return updated, nil
}

func (s *Service) latestReport(cityName string) (City, Report, error) {
	city, ok := s.repos.Cities.FindByName(cityName)
	if !ok {
		s.logger.Warn("city not found", "city", cityName)
		return City{}, Report{}, fmt.Errorf("%w: %s", ErrCityNotFound, cityName)
	}
	latest := s.repos.Reports.FindByLocationID(city.LocationID, true)
	if len(latest) == 0 {
		s.logger.Warn("no weather reports found", "city", cityName)
		return City{}, Report{}, fmt.Errorf("%w: %s", ErrNoReports, cityName)
	}
	return city, latest[0], nil
}

func (s *Service) findOrCreateCity(name string) (City, error) {
	if city, ok := s.repos.Cities.FindByName(name); ok {
		return city, nil
	}

	s.logger.Info("city not found, creating it", "city", name)
	loc, err := s.repos.Locations.Add(Location{
		ID:       uuid.New(),
		Name:     name + placeholderTitle,
		Timezone: placeholderZone,
	})
	if err != nil {
		return City{}, internal("add location", err)
	}
	city, err := s.repos.Cities.Add(City{
		ID:         uuid.New(),
		Name:       name,
		Country:    unknownCountry,
		LocationID: loc.ID,
	})
	if err != nil {
		return City{}, internal("add city", err)
	}
	s.logger.Info("created city", "city", name, "city_id", city.ID)
	return city, nil
}

// resolveCondition reuses the condition called name or creates one with
// moderate intensity.
func (s *Service) resolveCondition(name string) (Condition, error) {
	if c, ok := s.repos.Conditions.FindByName(name); ok {
		return c, nil
	}
	t, err := ConditionTypeFor(name)
	if err != nil {
		return Condition{}, err
	}
	c, err := s.repos.Conditions.Add(Condition{
		ID:        uuid.New(),
		Name:      name,
		Type:      t,
		Intensity: IntensityModerate,
	})
	if err != nil {
		return Condition{}, internal("add condition", err)
	}
	return c, nil
}

func (s *Service) linkCondition(reportID uuid.UUID, name string) error {
	c, err := s.resolveCondition(name)
	if err != nil {
		return err
	}
	_, err = s.repos.ReportConditions.Add(ReportCondition{
		ID:          uuid.New(),
		ReportID:    reportID,
		ConditionID: c.ID,
	})
	if err != nil {
		return internal("link condition", err)
	}
	return nil
}

func (s *Service) unlinkConditions(reportID uuid.UUID) {
	for _, rc := range s.repos.ReportConditions.FindByReportID(reportID) {
		s.repos.ReportConditions.Delete(rc.ID)
	}
}

// conditionFor returns the name of the condition linked to a report, or "".
func (s *Service) conditionFor(reportID uuid.UUID) string {
	links := s.repos.ReportConditions.FindByReportID(reportID)
	if len(links) == 0 {
		return ""
	}
	if c, ok := s.repos.Conditions.GetByID(links[0].ConditionID); ok {
		return c.Name
	}
	return ""
}

func isPlaceholder(loc Location, cityName string) bool {
	return loc.Latitude == 0 && loc.Longitude == 0 && loc.Name == cityName+placeholderTitle
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

// IsClientError reports whether err is caused by the request rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTimestamp) || errors.Is(err, ErrInvalidReport)
}
