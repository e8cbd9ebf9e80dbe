package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/i474232898/weather-reports/internal/store"
	"github.com/i474232898/weather-reports/internal/weather"
)

type staticProvider struct {
	temp float64
}

func (p staticProvider) Name() string { return "static" }

func (p staticProvider) Fetch(_ context.Context, place weather.Place) (weather.ProviderReading, error) {
	if place.City == "Atlantis" {
		return weather.ProviderReading{}, errors.New("no such city")
	}
	return weather.ProviderReading{
		Timestamp:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		TemperatureC: p.temp,
		HumidityPct:  40,
		Condition:    weather.ConditionSunny,
	}, nil
}

type staticGeocoder struct{}

func (staticGeocoder) Geocode(context.Context, string, string) (weather.Coordinates, error) {
	return weather.Coordinates{Latitude: 52.52, Longitude: 13.405}, nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestIngestAllStoresReportPerCity(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := weather.NewService(mem.Repositories(), weather.WithProviders(staticProvider{temp: 17}), weather.WithLogger(quiet))

	s := New(svc, Options{Cities: []string{"Berlin", "Oslo", "Atlantis"}}, quiet)
	s.ingestAll()

	for _, city := range []string{"Berlin", "Oslo"} {
		got, err := svc.GetCityWeather(city)
		if err != nil {
			t.Fatalf("GetCityWeather(%s): %v", city, err)
		}
		if got.Temperature != 17 || got.Source != "static" || got.Condition != "Sunny" {
			t.Fatalf("unexpected report for %s: %+v", city, got)
		}
	}
	if _, err := svc.GetCityWeather("Atlantis"); !errors.Is(err, weather.ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound for failed city, got %v", err)
	}
}

func TestEnrichUpdatesPlaceholders(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := weather.NewService(mem.Repositories(), weather.WithGeocoder(staticGeocoder{}), weather.WithLogger(quiet))
	if _, err := svc.AddWeatherReport(weather.NewReport{City: "Berlin", Temperature: 12}); err != nil {
		t.Fatalf("AddWeatherReport: %v", err)
	}

	New(svc, Options{}, quiet).enrich()

	city, ok := mem.Cities.FindByName("Berlin")
	if !ok {
		t.Fatal("city missing")
	}
	loc, ok := mem.Locations.GetByID(city.LocationID)
	if !ok || loc.Latitude != 52.52 || loc.Longitude != 13.405 {
		t.Fatalf("location not enriched: %+v", loc)
	}
}

func TestStartSchedulesEnabledJobs(t *testing.T) {
	mem := store.NewMemoryStore()

	idle := New(weather.NewService(mem.Repositories(), weather.WithLogger(quiet)), Options{Cities: []string{"Berlin"}}, quiet)
	n, err := idle.Start()
	if err != nil || n != 0 {
		t.Fatalf("expected no jobs without providers or geocoder, got %d, %v", n, err)
	}
	idle.Stop()

	svc := weather.NewService(mem.Repositories(),
		weather.WithProviders(staticProvider{temp: 5}),
		weather.WithGeocoder(staticGeocoder{}),
		weather.WithLogger(quiet),
	)
	s := New(svc, Options{Cities: []string{"Berlin"}, IngestInterval: time.Hour, EnrichInterval: time.Hour}, quiet)
	n, err = s.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()
	if n != 2 {
		t.Fatalf("expected 2 jobs, got %d", n)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	svc := weather.NewService(store.NewMemoryStore().Repositories(), weather.WithLogger(quiet))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := New(svc, Options{}, quiet).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
