package weather

import (
	"errors"
	"testing"
	"time"
)

func TestAggregateReadings(t *testing.T) {
	older := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	agg := AggregateReadings([]ProviderReading{
		{ProviderName: "a", Timestamp: older, TemperatureC: 10, HumidityPct: 40, Condition: ConditionRainy},
		{ProviderName: "b", Timestamp: newer, TemperatureC: 20, HumidityPct: 60, Condition: ConditionCloudy},
		{ProviderName: "c", Timestamp: older, TemperatureC: 30, HumidityPct: 80, Condition: ConditionCloudy},
	})

	if agg.TemperatureC != 20 {
		t.Fatalf("temperature = %v, want 20", agg.TemperatureC)
	}
	if agg.HumidityPct != 60 {
		t.Fatalf("humidity = %v, want 60", agg.HumidityPct)
	}
	if agg.Condition != ConditionCloudy {
		t.Fatalf("condition = %v, want cloudy", agg.Condition)
	}
	if !agg.Timestamp.Equal(newer) {
		t.Fatalf("timestamp = %v, want %v", agg.Timestamp, newer)
	}
	if agg.Source() != "a+b+c" {
		t.Fatalf("source = %q", agg.Source())
	}
}

func TestAggregateReadingsConditionTie(t *testing.T) {
	agg := AggregateReadings([]ProviderReading{
		{ProviderName: "a", TemperatureC: 1, Condition: ConditionSnowy},
		{ProviderName: "b", TemperatureC: 1, Condition: ConditionSunny},
		{ProviderName: "c", TemperatureC: 1},
	})
	if agg.Condition != ConditionSnowy {
		t.Fatalf("expected first-seen condition on tie, got %v", agg.Condition)
	}
	if agg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to default to now")
	}
}

func TestConditionTypeFor(t *testing.T) {
	for name, want := range map[string]ConditionType{
		"Sunny":  ConditionSunny,
		"stormy": ConditionStormy,
		"Foggy":  ConditionFoggy,
	} {
		got, err := ConditionTypeFor(name)
		if err != nil || got != want {
			t.Fatalf("ConditionTypeFor(%q) = %v, %v; want %v", name, got, err, want)
		}
	}

	for _, name := range []string{"SUNNY", "SuNnY", "Hail", "Light Rain", ""} {
		if _, err := ConditionTypeFor(name); !errors.Is(err, ErrInvalidConditionType) {
			t.Fatalf("ConditionTypeFor(%q): expected ErrInvalidConditionType, got %v", name, err)
		}
	}

	if DisplayName(ConditionRainy) != "Rainy" || DisplayName("hail") != "" {
		t.Fatal("unexpected display names")
	}
}
