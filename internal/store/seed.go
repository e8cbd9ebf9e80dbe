package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-reports/internal/weather"
)

// Seed clears the store and loads the sample dataset: London and Tokyo with
// three reports between them.
func (m *MemoryStore) Seed() error {
	slog.Info("seeding sample data")
	m.Clear()

	london := weather.Location{ID: uuid.New(), Name: "London Centre", Latitude: 51.5074, Longitude: -0.1278, Elevation: 11.0, Timezone: "Europe/London"}
	tokyo := weather.Location{ID: uuid.New(), Name: "Tokyo Station", Latitude: 35.6812, Longitude: 139.7671, Elevation: 5.0, Timezone: "Asia/Tokyo"}

	sunny := weather.Condition{ID: uuid.New(), Name: "Sunny", Type: weather.ConditionSunny, Intensity: weather.IntensityModerate}
	cloudy := weather.Condition{ID: uuid.New(), Name: "Cloudy", Type: weather.ConditionCloudy, Intensity: weather.IntensityModerate}
	lightRain := weather.Condition{ID: uuid.New(), Name: "Light Rain", Type: weather.ConditionRainy, Intensity: weather.IntensityLight}

	at := func(hour int) time.Time { return time.Date(2025, time.April, 27, hour, 0, 0, 0, time.UTC) }
	london1 := weather.Report{ID: uuid.New(), LocationID: london.ID, Timestamp: at(10), Source: "Local Sensor", Temperature: 14.5, TemperatureUnit: weather.Celsius, Humidity: 65.0}
	london2 := weather.Report{ID: uuid.New(), LocationID: london.ID, Timestamp: at(11), Source: "Local Sensor", Temperature: 15.1, TemperatureUnit: weather.Celsius, Humidity: 62.0}
	tokyo1 := weather.Report{ID: uuid.New(), LocationID: tokyo.ID, Timestamp: at(18), Source: "JMA", Temperature: 22.0, TemperatureUnit: weather.Celsius, Humidity: 75.0}

	steps := []func() error{
		add(m.Locations.Collection, london, tokyo),
		add(m.Cities.Collection,
			weather.City{ID: uuid.New(), Name: "London", Country: "United Kingdom", LocationID: london.ID},
			weather.City{ID: uuid.New(), Name: "Tokyo", Country: "Japan", LocationID: tokyo.ID},
		),
		add(m.Conditions.Collection, sunny, cloudy, lightRain),
		add(m.Reports.Collection, london1, london2, tokyo1),
		add(m.ReportConditions.Collection,
			weather.ReportCondition{ID: uuid.New(), ReportID: london1.ID, ConditionID: cloudy.ID},
			weather.ReportCondition{ID: uuid.New(), ReportID: london2.ID, ConditionID: sunny.ID},
			weather.ReportCondition{ID: uuid.New(), ReportID: tokyo1.ID, ConditionID: lightRain.ID},
		),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	c := m.Counts()
	slog.Info("finished seeding",
		"locations", c.Locations, "cities", c.Cities, "conditions", c.Conditions,
		"reports", c.Reports, "report_conditions", c.ReportConditions)
	return nil
}

func add[T weather.Entity](c *Collection[T], entities ...T) func() error {
	return func() error {
		for _, e := range entities {
			if _, err := c.Add(e); err != nil {
				return err
			}
		}
		return nil
	}
}
