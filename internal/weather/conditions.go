package weather

import "fmt"

// conditionTypes maps condition names accepted from clients to their type.
// Names missing from the table are rejected rather than guessed.
var conditionTypes = map[string]ConditionType{
	"Sunny":  ConditionSunny,
	"Cloudy": ConditionCloudy,
	"Rainy":  ConditionRainy,
	"Snowy":  ConditionSnowy,
	"Foggy":  ConditionFoggy,
	"Windy":  ConditionWindy,
	"Stormy": ConditionStormy,

	"sunny":  ConditionSunny,
	"cloudy": ConditionCloudy,
	"rainy":  ConditionRainy,
	"snowy":  ConditionSnowy,
	"foggy":  ConditionFoggy,
	"windy":  ConditionWindy,
	"stormy": ConditionStormy,
}

// displayNames is the canonical client-facing name for each type.
var displayNames = map[ConditionType]string{
	ConditionSunny:  "Sunny",
	ConditionCloudy: "Cloudy",
	ConditionRainy:  "Rainy",
	ConditionSnowy:  "Snowy",
	ConditionFoggy:  "Foggy",
	ConditionWindy:  "Windy",
	ConditionStormy: "Stormy",
}

// ConditionTypeFor looks name up in the condition table.
func ConditionTypeFor(name string) (ConditionType, error) {
	t, ok := conditionTypes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidConditionType, name)
	}
	return t, nil
}

// DisplayName returns the client-facing name for t, or "" for unknown types.
func DisplayName(t ConditionType) string {
	return displayNames[t]
}
