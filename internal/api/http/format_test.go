package httpapi

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-reports/internal/weather"
)

func TestNormalizeTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		in   string
		want string
	}{
		{"2023-06-15T14:30:00+00:00", "2023-06-15T14:30:00Z"},
		{"2023-06-15T14:30:00Z", "2023-06-15T14:30:00Z"},
		{"2023-06-15T14:30:00", "2023-06-15T14:30:00Z"},
		{"2023-06-15T14:30:00+02:00", "2023-06-15T14:30:00+02:00"},
		{"not a timestamp", "2025-01-02T02:04:05Z"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTimestamp(tt.in, now); got != tt.want {
			t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatReportWithoutCondition(t *testing.T) {
	id := uuid.New()
	got := formatReport(weather.ReportView{
		ID:          id,
		City:        "Oslo",
		Temperature: -3,
		Timestamp:   time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC),
	}, time.Now())

	if got.ID != id.String() || got.Condition != nil || got.Timestamp != "2025-02-01T06:00:00Z" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestFormatSummariesEmpty(t *testing.T) {
	got := formatSummaries(weather.Summaries{}, time.Now())
	if got.Cities == nil || len(got.Cities) != 0 {
		t.Fatalf("expected empty non-nil cities, got %#v", got.Cities)
	}
}
