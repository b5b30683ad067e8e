package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/kachelmann-weather/internal/store"
	"github.com/i474232898/kachelmann-weather/internal/weather"
)

// stubSource implements SnapshotSource with canned data.
type stubSource struct {
	snap    *weather.Snapshot
	err     error
	healthy bool
}

func (s *stubSource) Snapshot() (*weather.Snapshot, error) { return s.snap, s.err }
func (s *stubSource) Healthy() bool                        { return s.healthy }

func newTestApp(src SnapshotSource) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, src)
	return app
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func bptr(v bool) *bool       { return &v }

func testSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		Current: &weather.CurrentReading{
			Temp:          &weather.Measurement{Value: 2.1, Unit: "°C"},
			WeatherSymbol: &weather.TextMeasurement{Value: "sunshine"},
			IsDay:         &weather.BoolMeasurement{Value: false},
			Risks:         []weather.Risk{{Type: "storm"}, {Type: "frost"}},
		},
		Daily: []weather.DailyEntry{
			{DateTime: "2026-01-10T00:00:00Z", TempMax: fptr(4.5), TempMin: fptr(-1), WeatherSymbol: sptr("snow")},
			{DateTime: "2026-01-11T00:00:00Z", TempMax: fptr(6), WeatherSymbol: sptr("sunshine"), IsDay: bptr(true)},
			{DateTime: "2026-01-12T00:00:00Z", TempMax: fptr(7)},
		},
		HourlyFine: []weather.HourlyEntry{
			{DateTime: "2026-01-10T10:00:00Z", Temp: fptr(1), WeatherSymbol: sptr("fog")},
			{DateTime: "2026-01-10T11:00:00Z", Temp: fptr(2)},
		},
		HourlyCoarse: []weather.HourlyEntry{
			{DateTime: "2026-01-10T11:00:00Z", Temp: fptr(99)},
			{DateTime: "2026-01-10T14:00:00Z", Temp: fptr(3)},
		},
		FetchedAt: time.Date(2026, 1, 10, 9, 50, 0, 0, time.UTC),
	}
}

// TestWeatherUnavailableBeforeFirstSnapshot verifies that all weather routes
// answer 503 until the first refresh published something.
func TestWeatherUnavailableBeforeFirstSnapshot(t *testing.T) {
	app := newTestApp(&stubSource{err: store.ErrNoSnapshot})

	for _, path := range []string{
		"/api/v1/weather",
		"/api/v1/weather/current",
		"/api/v1/weather/forecast/daily",
		"/api/v1/weather/forecast/hourly",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusServiceUnavailable, resp.StatusCode)
		}
	}
}

// TestWeatherUnavailableAfterFailedCycle verifies the routes stop serving
// once the last refresh failed, even though a stale snapshot is retained.
func TestWeatherUnavailableAfterFailedCycle(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: false})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

// TestWeatherSnapshotMapping verifies the full snapshot keeps its four-part
// shape, with absent parts rendered as null.
func TestWeatherSnapshotMapping(t *testing.T) {
	snap := testSnapshot()
	snap.Current = nil // degraded this cycle
	app := newTestApp(&stubSource{snap: snap, healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	for _, key := range []string{"current", "forecast", "forecast_hourly", "forecast_hourly_3h"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing key %q in response", key)
		}
	}
	if string(payload["current"]) != "null" {
		t.Fatalf("expected current to be null, got %s", payload["current"])
	}
}

// TestCurrentProjection verifies the flat current endpoint maps the symbol
// with the day flag and joins the risk types.
func TestCurrentProjection(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Condition   *string  `json:"condition"`
		Temperature *float64 `json:"temperature"`
		Dewpoint    *float64 `json:"dewpoint"`
		Risks       string   `json:"risks"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	// Night-time sunshine maps to clear-night.
	if payload.Condition == nil || *payload.Condition != "clear-night" {
		t.Fatalf("expected condition clear-night, got %v", payload.Condition)
	}
	if payload.Temperature == nil || *payload.Temperature != 2.1 {
		t.Fatalf("expected temperature 2.1, got %v", payload.Temperature)
	}
	if payload.Dewpoint != nil {
		t.Fatalf("expected absent dewpoint to be null, got %v", *payload.Dewpoint)
	}
	if payload.Risks != "storm, frost" {
		t.Fatalf("expected joined risks, got %q", payload.Risks)
	}
}

// TestCurrentMissing verifies a snapshot without current conditions yields 404.
func TestCurrentMissing(t *testing.T) {
	snap := testSnapshot()
	snap.Current = nil
	app := newTestApp(&stubSource{snap: snap, healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

// TestDailyDaysValidation verifies the forecast endpoint enforces the 1-14
// range for the `days` query parameter.
func TestDailyDaysValidation(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: true})

	for _, query := range []string{"days=0", "days=15", "days=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/daily?"+query, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", query, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

// TestDailyTruncation verifies `days` limits the entries and conditions are
// mapped per entry.
func TestDailyTruncation(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/daily?days=2", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Forecast []struct {
			DateTime  string  `json:"datetime"`
			Condition *string `json:"condition"`
		} `json:"forecast"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(payload.Forecast) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(payload.Forecast))
	}
	if payload.Forecast[0].Condition == nil || *payload.Forecast[0].Condition != "snowy" {
		t.Fatalf("expected first condition snowy, got %v", payload.Forecast[0].Condition)
	}
}

// TestHourlyAbsent verifies the merged-hourly endpoint distinguishes absent
// series from empty ones.
func TestHourlyAbsent(t *testing.T) {
	snap := testSnapshot()
	snap.HourlyFine = nil
	snap.HourlyCoarse = nil
	app := newTestApp(&stubSource{snap: snap, healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/hourly", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

// TestHourlyMerged verifies fine entries win the overlap and coarse entries
// extend the horizon.
func TestHourlyMerged(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/hourly", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Forecast []struct {
			DateTime    string   `json:"datetime"`
			Temperature *float64 `json:"temperature"`
		} `json:"forecast"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if len(payload.Forecast) != 3 {
		t.Fatalf("expected 3 merged entries, got %d", len(payload.Forecast))
	}
	// 11:00 comes from the fine series, not the coarse duplicate.
	if payload.Forecast[1].DateTime != "2026-01-10T11:00:00Z" || *payload.Forecast[1].Temperature != 2 {
		t.Fatalf("fine series should win the 11:00 slot, got %+v", payload.Forecast[1])
	}
	if payload.Forecast[2].DateTime != "2026-01-10T14:00:00Z" {
		t.Fatalf("expected coarse 14:00 entry last, got %s", payload.Forecast[2].DateTime)
	}
}

// TestHourlyHoursValidation verifies the 1-336 range for `hours` and that
// truncation applies after merging.
func TestHourlyHoursValidation(t *testing.T) {
	app := newTestApp(&stubSource{snap: testSnapshot(), healthy: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/hourly?hours=337", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast/hourly?hours=1", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Forecast []json.RawMessage `json:"forecast"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(payload.Forecast) != 1 {
		t.Fatalf("expected 1 entry after truncation, got %d", len(payload.Forecast))
	}
}
