package httpapi

import (
	"strings"
	"time"

	"github.com/i474232898/weather-reports/internal/weather"
)

// reportResponse is the documented shape of a single weather report.
type reportResponse struct {
	ID          string  `json:"id"`
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   *string `json:"condition"`
	Timestamp   string  `json:"timestamp"`
}

type citySummaryResponse struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   *string `json:"condition"`
	Timestamp   string  `json:"timestamp"`
}

type summariesResponse struct {
	Cities []citySummaryResponse `json:"cities"`
}

func formatReport(v weather.ReportView, now time.Time) reportResponse {
	return reportResponse{
		ID:          v.ID.String(),
		City:        v.City,
		Temperature: v.Temperature,
		Condition:   optional(v.Condition),
		Timestamp:   formatTime(v.Timestamp, now),
	}
}

func formatSummaries(s weather.Summaries, now time.Time) summariesResponse {
	out := summariesResponse{Cities: make([]citySummaryResponse, 0, len(s.Cities))}
	for _, c := range s.Cities {
		out.Cities = append(out.Cities, citySummaryResponse{
			City:        c.City,
			Temperature: c.Temperature,
			Condition:   optional(c.Condition),
			Timestamp:   formatTime(c.Timestamp, now),
		})
	}
	return out
}

func formatTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return NormalizeTimestamp(t.Format(time.RFC3339Nano), now)
}

// NormalizeTimestamp rewrites an ISO-8601 timestamp for output. A "+00:00"
// suffix becomes "Z", text already ending in "Z" is returned as is, zone-less
// text is read as UTC and other offsets are kept. Text that cannot be parsed
// is replaced by now in UTC. Empty text stays empty.
func NormalizeTimestamp(text string, now time.Time) string {
	switch {
	case text == "":
		return ""
	case strings.HasSuffix(text, "Z"):
		return text
	}

	t, err := weather.ParseTimestamp(text)
	if err != nil {
		return now.UTC().Format(time.RFC3339Nano)
	}
	if t.Location() == time.UTC {
		return t.Format(time.RFC3339Nano)
	}
	return text
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
