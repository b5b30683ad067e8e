package coordinator

import (
	"context"
	"sync/atomic"

	"github.com/i474232898/kachelmann-weather/internal/weather"
)

// mockAPI implements API for testing. Unset function fields fall back to
// small valid payloads; call counters let tests assert which endpoints
// were hit.
type mockAPI struct {
	TrendFn   func(ctx context.Context, lat, lon float64, etag string) ([]weather.DailyEntry, string, error)
	FineFn    func(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error)
	CoarseFn  func(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error)
	CurrentFn func(ctx context.Context, lat, lon float64) (*weather.CurrentReading, error)

	trendCalls   atomic.Int32
	fineCalls    atomic.Int32
	coarseCalls  atomic.Int32
	currentCalls atomic.Int32
}

func (m *mockAPI) FetchDailyTrend(ctx context.Context, lat, lon float64, etag string) ([]weather.DailyEntry, string, error) {
	m.trendCalls.Add(1)
	if m.TrendFn != nil {
		return m.TrendFn(ctx, lat, lon, etag)
	}
	tempMax := 5.0
	return []weather.DailyEntry{{DateTime: "2026-01-10T00:00:00Z", TempMax: &tempMax}}, `"v1"`, nil
}

func (m *mockAPI) FetchHourlyFine(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error) {
	m.fineCalls.Add(1)
	if m.FineFn != nil {
		return m.FineFn(ctx, lat, lon)
	}
	temp := 3.0
	return []weather.HourlyEntry{{DateTime: "2026-01-10T10:00:00Z", Temp: &temp}}, nil
}

func (m *mockAPI) FetchHourlyCoarse(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error) {
	m.coarseCalls.Add(1)
	if m.CoarseFn != nil {
		return m.CoarseFn(ctx, lat, lon)
	}
	temp := 2.0
	return []weather.HourlyEntry{{DateTime: "2026-01-10T13:00:00Z", Temp: &temp}}, nil
}

func (m *mockAPI) FetchCurrent(ctx context.Context, lat, lon float64) (*weather.CurrentReading, error) {
	m.currentCalls.Add(1)
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, lat, lon)
	}
	return &weather.CurrentReading{
		Temp:          &weather.Measurement{Value: 2.1, Unit: "°C"},
		WeatherSymbol: &weather.TextMeasurement{Value: "sunshine"},
		IsDay:         &weather.BoolMeasurement{Value: true},
	}, nil
}

func (m *mockAPI) totalCalls() int32 {
	return m.trendCalls.Load() + m.fineCalls.Load() + m.coarseCalls.Load() + m.currentCalls.Load()
}
