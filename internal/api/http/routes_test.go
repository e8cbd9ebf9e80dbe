package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-reports/internal/store"
	"github.com/i474232898/weather-reports/internal/weather"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	mem := store.NewMemoryStore()
	if err := mem.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := weather.NewService(mem.Repositories(), weather.WithLogger(logger))
	return NewApp(svc, Options{Environment: "test"})
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	return resp, out
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func TestGetCityWeather(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather/London", "")
	expectStatus(t, resp, http.StatusOK)
	if body["city"] != "London" || body["temperature"] != 15.1 || body["condition"] != "Sunny" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["timestamp"] != "2025-04-27T11:00:00Z" {
		t.Fatalf("unexpected timestamp %v", body["timestamp"])
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/weather/Atlantis", "")
	expectStatus(t, resp, http.StatusNotFound)
	if body["error"] != true {
		t.Fatalf("expected error body, got %v", body)
	}
}

func TestGetAllCitySummaries(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather", "")
	expectStatus(t, resp, http.StatusOK)

	cities, ok := body["cities"].([]interface{})
	if !ok || len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %v", body)
	}
	tokyo := cities[1].(map[string]interface{})
	if tokyo["city"] != "Tokyo" || tokyo["condition"] != "Light Rain" || tokyo["timestamp"] != "2025-04-27T18:00:00Z" {
		t.Fatalf("unexpected summary: %v", tokyo)
	}
}

func TestCreateReport(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/weather",
		`{"city":"New York","temperature":25.5,"condition":"Sunny","timestamp":"2025-06-01T08:00:00+00:00","humidity":40}`)
	expectStatus(t, resp, http.StatusCreated)
	if body["city"] != "New York" || body["condition"] != "Sunny" || body["timestamp"] != "2025-06-01T08:00:00Z" {
		t.Fatalf("unexpected body: %v", body)
	}
	if id, _ := body["id"].(string); id == "" {
		t.Fatalf("expected id, got %v", body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/weather/New%20York", "")
	expectStatus(t, resp, http.StatusOK)
	if body["temperature"] != 25.5 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateReportValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing city", `{"temperature":1,"condition":"Sunny"}`},
		{"missing temperature", `{"city":"Oslo","condition":"Sunny"}`},
		{"unknown condition", `{"city":"Oslo","temperature":1,"condition":"Hail"}`},
		{"humidity out of range", `{"city":"Oslo","temperature":1,"condition":"Sunny","humidity":120}`},
		{"bad timestamp", `{"city":"Oslo","temperature":1,"condition":"Sunny","timestamp":"yesterday"}`},
		{"blank city", `{"city":"   ","temperature":1,"condition":"Sunny"}`},
		{"malformed json", `{"city":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodPost, "/api/v1/weather", tt.body)
			expectStatus(t, resp, http.StatusBadRequest)
			if body["error"] != true || body["message"] == "" {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}

	resp, _ := do(t, app, http.MethodGet, "/api/v1/weather/Oslo", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestCreateReportTrimsCity(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/weather", `{"city":" Paris ","temperature":21,"condition":"Sunny"}`)
	expectStatus(t, resp, http.StatusCreated)
	if body["city"] != "Paris" {
		t.Fatalf("expected trimmed city, got %v", body["city"])
	}

	for _, target := range []string{"/api/v1/weather/Paris", "/api/v1/weather/%20Paris%20"} {
		resp, body = do(t, app, http.MethodGet, target, "")
		expectStatus(t, resp, http.StatusOK)
		if body["temperature"] != 21.0 {
			t.Fatalf("GET %s: unexpected body %v", target, body)
		}
	}

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/weather/%20Paris%20", "")
	expectStatus(t, resp, http.StatusNoContent)
}

func TestUpdateCityWeather(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPut, "/api/v1/weather/London", `{"temperature":3.5,"condition":"Snowy"}`)
	expectStatus(t, resp, http.StatusOK)
	if body["temperature"] != 3.5 || body["condition"] != "Snowy" {
		t.Fatalf("unexpected body: %v", body)
	}

	resp, _ = do(t, app, http.MethodPut, "/api/v1/weather/London", `{"timestamp":"not a time"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/weather/Atlantis", `{"temperature":1}`)
	expectStatus(t, resp, http.StatusNotFound)

	_, body = do(t, app, http.MethodGet, "/api/v1/weather/London", "")
	if body["temperature"] != 3.5 || body["timestamp"] != "2025-04-27T11:00:00Z" {
		t.Fatalf("rejected update must not change the report: %v", body)
	}
}

func TestDeleteCityWeather(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodDelete, "/api/v1/weather/Tokyo", "")
	expectStatus(t, resp, http.StatusNoContent)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/weather/Tokyo", "")
	expectStatus(t, resp, http.StatusNotFound)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/weather/Tokyo", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestHomeListsEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/", "")
	expectStatus(t, resp, http.StatusOK)
	if body["health"] != "OK" || body["environment"] != "test" {
		t.Fatalf("unexpected body: %v", body)
	}

	var paths []string
	for _, e := range body["endpoints"].([]interface{}) {
		paths = append(paths, e.(map[string]interface{})["path"].(string))
	}
	joined := strings.Join(paths, " ")
	for _, want := range []string{"/health", "/api/v1/weather", "/api/v1/weather/:city"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %s in %v", want, paths)
		}
	}

	resp, _ = do(t, app, http.MethodGet, "/health", "")
	expectStatus(t, resp, http.StatusOK)
}
