package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/kachelmann-weather/internal/store"
	"github.com/i474232898/kachelmann-weather/internal/weather"
)

var validate = validator.New()

// SnapshotSource is the coordinator surface the handlers read. All routes
// serve the published snapshot; nothing here triggers a fetch.
type SnapshotSource interface {
	Snapshot() (*weather.Snapshot, error)
	Healthy() bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, src SnapshotSource) {
	v1 := app.Group("/api/v1")

	// The full snapshot, keyed the way the refresh cycle assembled it.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		snap, err := readSnapshot(src)
		if err != nil {
			return err
		}
		return c.JSON(snap)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snap, err := readSnapshot(src)
		if err != nil {
			return err
		}
		if snap.Current == nil {
			return fiber.NewError(fiber.StatusNotFound, "no current conditions in latest snapshot")
		}
		return c.JSON(buildCurrentResponse(snap))
	})

	v1.Get("/weather/forecast/daily", func(c *fiber.Ctx) error {
		q, err := parseDaysQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		snap, err := readSnapshot(src)
		if err != nil {
			return err
		}
		if snap.Daily == nil {
			return fiber.NewError(fiber.StatusNotFound, "no daily forecast in latest snapshot")
		}

		entries := snap.Daily
		if len(entries) > q.Days {
			entries = entries[:q.Days]
		}
		items := make([]dailyForecastItem, len(entries))
		for i, d := range entries {
			items[i] = buildDailyItem(d)
		}
		return c.JSON(fiber.Map{
			"fetchedAt": snap.FetchedAt,
			"forecast":  items,
		})
	})

	v1.Get("/weather/forecast/hourly", func(c *fiber.Ctx) error {
		q, err := parseHoursQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		snap, err := readSnapshot(src)
		if err != nil {
			return err
		}

		// Merged on demand; the snapshot keeps the two series as fetched.
		merged := weather.MergeHourly(snap.HourlyFine, snap.HourlyCoarse)
		if merged == nil {
			return fiber.NewError(fiber.StatusNotFound, "no hourly forecast available")
		}

		if len(merged) > q.Hours {
			merged = merged[:q.Hours]
		}
		items := make([]hourlyForecastItem, len(merged))
		for i, h := range merged {
			items[i] = buildHourlyItem(h)
		}
		return c.JSON(fiber.Map{
			"fetchedAt": snap.FetchedAt,
			"forecast":  items,
		})
	})
}

// readSnapshot fetches the latest snapshot, translating coordinator state
// into HTTP errors: 503 before the first publish and while the last cycle
// is failed, mirroring an unavailable weather entity.
func readSnapshot(src SnapshotSource) (*weather.Snapshot, error) {
	snap, err := src.Snapshot()
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, "no weather snapshot published yet")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read weather snapshot")
	}
	if !src.Healthy() {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "last refresh failed; weather data unavailable")
	}
	return snap, nil
}

// daysQuery holds query parameters for the daily forecast endpoint.
type daysQuery struct {
	Days int `validate:"gte=1,lte=14"`
}

func parseDaysQuery(c *fiber.Ctx) (daysQuery, error) {
	q := daysQuery{Days: 14}
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("days must be an integer")
		}
		q.Days = n
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// hoursQuery holds query parameters for the hourly forecast endpoint. The
// upper bound covers the 14-day horizon at one entry per hour.
type hoursQuery struct {
	Hours int `validate:"gte=1,lte=336"`
}

func parseHoursQuery(c *fiber.Ctx) (hoursQuery, error) {
	q := hoursQuery{Hours: 336}
	if raw := c.Query("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("hours must be an integer")
		}
		q.Hours = n
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// currentResponse is the flat projection of the current conditions. Absent
// quantities serialize as null so consumers can tell "missing" from zero.
type currentResponse struct {
	Condition     *weather.Condition `json:"condition"`
	WeatherSymbol *string            `json:"weatherSymbol"`
	Temperature   *float64           `json:"temperature"`
	Dewpoint      *float64           `json:"dewpoint"`
	Humidity      *float64           `json:"humidity"`
	Pressure      *float64           `json:"pressure"`
	WindSpeed     *float64           `json:"windSpeed"`
	WindBearing   *float64           `json:"windBearing"`
	WindGust      *float64           `json:"windGust"`
	CloudCoverage *float64           `json:"cloudCoverage"`
	SunHours      *float64           `json:"sunHours"`
	Precipitation *float64           `json:"precipitation"`
	SnowAmount    *float64           `json:"snowAmount"`
	SnowHeight    *float64           `json:"snowHeight"`
	IsDay         *bool              `json:"isDay"`
	Risks         string             `json:"risks,omitempty"`
	FetchedAt     time.Time          `json:"fetchedAt"`
}

func buildCurrentResponse(snap *weather.Snapshot) currentResponse {
	cur := snap.Current
	resp := currentResponse{
		Condition:     conditionPtr(cur.Symbol(), cur.Daytime()),
		Temperature:   measurementValue(cur.Temp),
		Dewpoint:      measurementValue(cur.Dewpoint),
		Humidity:      measurementValue(cur.HumidityRelative),
		Pressure:      measurementValue(cur.PressureMsl),
		WindSpeed:     measurementValue(cur.WindSpeed),
		WindBearing:   measurementValue(cur.WindDirection),
		WindGust:      measurementValue(cur.WindGust),
		CloudCoverage: measurementValue(cur.CloudCoverage),
		SunHours:      measurementValue(cur.SunHours),
		Precipitation: measurementValue(cur.Prec1h),
		SnowAmount:    measurementValue(cur.SnowAmount),
		SnowHeight:    measurementValue(cur.SnowHeight),
		Risks:         weather.JoinRiskTypes(cur.Risks),
		FetchedAt:     snap.FetchedAt,
	}
	if cur.WeatherSymbol != nil {
		s := cur.WeatherSymbol.Value
		resp.WeatherSymbol = &s
	}
	if cur.IsDay != nil {
		b := cur.IsDay.Value
		resp.IsDay = &b
	}
	return resp
}

// dailyForecastItem is one day of the trend projection. Field names follow
// the common weather-card vocabulary.
type dailyForecastItem struct {
	DateTime                 string             `json:"datetime"`
	Condition                *weather.Condition `json:"condition"`
	Temperature              *float64           `json:"temperature"`
	TempLow                  *float64           `json:"templow"`
	Precipitation            *float64           `json:"precipitation"`
	PrecipitationProbability *float64           `json:"precipitation_probability"`
	PrecipitationProb10mm    *float64           `json:"precipitation_probability_10mm"`
	WindGustSpeed            *float64           `json:"wind_gust_speed"`
	WindBearing              *float64           `json:"wind_bearing"`
	CloudCoverage            *float64           `json:"cloud_coverage"`
	SunHours                 *float64           `json:"sun_hours"`
	WeatherSymbol            *string            `json:"weather_symbol"`
	Risks                    string             `json:"risks,omitempty"`
}

func buildDailyItem(d weather.DailyEntry) dailyForecastItem {
	return dailyForecastItem{
		DateTime:                 d.DateTime,
		Condition:                conditionPtr(d.Symbol(), d.Daytime()),
		Temperature:              d.TempMax,
		TempLow:                  d.TempMin,
		Precipitation:            d.Prec,
		PrecipitationProbability: d.PrecProb1mm,
		PrecipitationProb10mm:    d.PrecProb10mm,
		WindGustSpeed:            d.WindGust,
		WindBearing:              d.WindDirection,
		CloudCoverage:            d.CloudCoverageEighths,
		SunHours:                 d.SunHours,
		WeatherSymbol:            d.WeatherSymbol,
		Risks:                    weather.JoinRiskTypes(d.Risks),
	}
}

// hourlyForecastItem is one hour of the merged fine and coarse series.
type hourlyForecastItem struct {
	DateTime      string             `json:"datetime"`
	Condition     *weather.Condition `json:"condition"`
	Temperature   *float64           `json:"temperature"`
	Precipitation *float64           `json:"precipitation"`
	CloudCoverage *float64           `json:"cloud_coverage"`
	WindSpeed     *float64           `json:"wind_speed"`
	WindGustSpeed *float64           `json:"wind_gust_speed"`
	WindBearing   *float64           `json:"wind_bearing"`
	Pressure      *float64           `json:"pressure_msl"`
	Humidity      *float64           `json:"humidity_relative"`
	Dewpoint      *float64           `json:"dewpoint"`
	SunHours      *float64           `json:"sun_hours"`
	WmoCode       *int               `json:"wmo_code"`
	WeatherSymbol *string            `json:"weather_symbol"`
}

func buildHourlyItem(h weather.HourlyEntry) hourlyForecastItem {
	return hourlyForecastItem{
		DateTime:      h.DateTime,
		Condition:     conditionPtr(h.Symbol(), h.Daytime()),
		Temperature:   h.Temp,
		Precipitation: h.PrecCurrent,
		CloudCoverage: h.CloudCoverage,
		WindSpeed:     h.WindSpeed,
		WindGustSpeed: h.WindGust,
		WindBearing:   h.WindDirection,
		Pressure:      h.PressureMsl,
		Humidity:      h.HumidityRelative,
		Dewpoint:      h.Dewpoint,
		SunHours:      h.SunHours,
		WmoCode:       h.WmoCode,
		WeatherSymbol: h.WeatherSymbol,
	}
}

func conditionPtr(symbol string, isDay bool) *weather.Condition {
	cond, ok := weather.MapCondition(symbol, isDay)
	if !ok {
		return nil
	}
	return &cond
}

func measurementValue(m *weather.Measurement) *float64 {
	if m == nil {
		return nil
	}
	v := m.Value
	return &v
}
