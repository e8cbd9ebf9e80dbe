package weather

import (
	"strings"
	"time"
)

// Aggregate is the combined view of several provider readings.
type Aggregate struct {
	Timestamp    time.Time
	TemperatureC float64
	HumidityPct  float64
	Condition    ConditionType // empty when no reading carried one
	Providers    []string
}

// Source is the report source recorded for the aggregate.
func (a Aggregate) Source() string {
	return strings.Join(a.Providers, "+")
}

// AggregateReadings combines multiple provider readings into one.
// Numeric fields are averaged; the condition is the most frequent one,
// ties going to the condition seen first.
func AggregateReadings(readings []ProviderReading) Aggregate {
	if len(readings) == 0 {
		return Aggregate{Timestamp: time.Now().UTC()}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		newestTS    time.Time
		order       []ConditionType
	)
	conditionCounts := make(map[ConditionType]int)
	providers := make([]string, 0, len(readings))

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumHumidity += r.HumidityPct

		if r.Condition != "" {
			if conditionCounts[r.Condition] == 0 {
				order = append(order, r.Condition)
			}
			conditionCounts[r.Condition]++
		}

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		providers = append(providers, r.ProviderName)
	}

	var bestCond ConditionType
	bestCount := 0
	for _, cond := range order {
		if conditionCounts[cond] > bestCount {
			bestCount = conditionCounts[cond]
			bestCond = cond
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	n := float64(len(readings))
	return Aggregate{
		Timestamp:    newestTS.UTC(),
		TemperatureC: sumTemp / n,
		HumidityPct:  sumHumidity / n,
		Condition:    bestCond,
		Providers:    providers,
	}
}
