package weather

import (
	"strings"
	"time"
)

// Condition is a normalized weather condition drawn from a small fixed
// vocabulary, independent of the provider's symbol codes.
type Condition string

const (
	ConditionSunny          Condition = "sunny"
	ConditionClearNight     Condition = "clear-night"
	ConditionCloudy         Condition = "cloudy"
	ConditionFog            Condition = "fog"
	ConditionHail           Condition = "hail"
	ConditionLightning      Condition = "lightning"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionPouring        Condition = "pouring"
	ConditionRainy          Condition = "rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionWindy          Condition = "windy"
)

// Measurement is a numeric reading paired with the unit the provider
// reported it in. Units pass through untouched.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// TextMeasurement is a string-valued reading, e.g. the weather symbol code.
type TextMeasurement struct {
	Value string `json:"value"`
}

// BoolMeasurement is a boolean reading, e.g. the day/night flag.
type BoolMeasurement struct {
	Value bool `json:"value"`
}

// Risk is a weather risk announcement. The provider attaches more fields,
// but only the type is consumed downstream.
type Risk struct {
	Type string `json:"type"`
}

// JoinRiskTypes renders a risk list as a comma-separated string of types
// for display. Returns "" for an empty list.
func JoinRiskTypes(risks []Risk) string {
	if len(risks) == 0 {
		return ""
	}
	types := make([]string, len(risks))
	for i, r := range risks {
		types[i] = r.Type
	}
	return strings.Join(types, ", ")
}

// CurrentReading holds the station-style current conditions. Every quantity
// is independently optional; a nil field means the provider omitted it.
type CurrentReading struct {
	Temp             *Measurement     `json:"temp,omitempty"`
	Dewpoint         *Measurement     `json:"dewpoint,omitempty"`
	HumidityRelative *Measurement     `json:"humidityRelative,omitempty"`
	PressureMsl      *Measurement     `json:"pressureMsl,omitempty"`
	WindSpeed        *Measurement     `json:"windSpeed,omitempty"`
	WindDirection    *Measurement     `json:"windDirection,omitempty"`
	WindGust         *Measurement     `json:"windGust,omitempty"`
	CloudCoverage    *Measurement     `json:"cloudCoverage,omitempty"`
	SunHours         *Measurement     `json:"sunHours,omitempty"`
	Prec1h           *Measurement     `json:"prec1h,omitempty"`
	SnowAmount       *Measurement     `json:"snowAmount,omitempty"`
	SnowHeight       *Measurement     `json:"snowHeight,omitempty"`
	WmoCode          *Measurement     `json:"wmoCode,omitempty"`
	WeatherSymbol    *TextMeasurement `json:"weatherSymbol,omitempty"`
	IsDay            *BoolMeasurement `json:"isDay,omitempty"`
	Risks            []Risk           `json:"risks,omitempty"`
}

// Symbol returns the weather symbol code, or "" when absent.
func (c *CurrentReading) Symbol() string {
	if c == nil || c.WeatherSymbol == nil {
		return ""
	}
	return c.WeatherSymbol.Value
}

// Daytime reports whether the reading was taken during daytime. Absent
// flags count as daytime, matching how the provider reports clear nights.
func (c *CurrentReading) Daytime() bool {
	if c == nil || c.IsDay == nil {
		return true
	}
	return c.IsDay.Value
}

// DailyEntry is one calendar day of the multi-day trend forecast. Entries
// arrive ordered ascending by date; the first one is today.
type DailyEntry struct {
	DateTime             string   `json:"dateTime"`
	WeekDay              *string  `json:"weekDay,omitempty"`
	IsWeekend            *bool    `json:"isWeekend,omitempty"`
	TempMax              *float64 `json:"tempMax,omitempty"`
	TempMaxLow           *float64 `json:"tempMaxLow,omitempty"`
	TempMaxHigh          *float64 `json:"tempMaxHigh,omitempty"`
	TempMin              *float64 `json:"tempMin,omitempty"`
	TempMinLow           *float64 `json:"tempMinLow,omitempty"`
	TempMinHigh          *float64 `json:"tempMinHigh,omitempty"`
	Prec                 *float64 `json:"prec,omitempty"`
	PrecProb1mm          *float64 `json:"precProb1mm,omitempty"`
	PrecProb10mm         *float64 `json:"precProb10mm,omitempty"`
	PrecDescription      *string  `json:"precDescription,omitempty"`
	WindGust             *float64 `json:"windGust,omitempty"`
	WindDirection        *float64 `json:"windDirection,omitempty"`
	CloudCoverageEighths *float64 `json:"cloudCoverageEighths,omitempty"`
	CloudsDescription    *string  `json:"cloudsDescription,omitempty"`
	SunHours             *float64 `json:"sunHours,omitempty"`
	WeatherSymbol        *string  `json:"weatherSymbol,omitempty"`
	IsDay                *bool    `json:"isDay,omitempty"`
	Risks                []Risk   `json:"risks,omitempty"`
}

// Symbol returns the day's weather symbol code, or "" when absent.
func (d DailyEntry) Symbol() string {
	if d.WeatherSymbol == nil {
		return ""
	}
	return *d.WeatherSymbol
}

// Daytime reports the day/night flag for symbol mapping. Trend entries
// describe whole days, so an absent flag counts as daytime.
func (d DailyEntry) Daytime() bool {
	if d.IsDay == nil {
		return true
	}
	return *d.IsDay
}

// HourlyEntry is one timestamped hour of forecast data. DateTime keeps the
// provider's ISO-8601 string; Timestamp parses it on demand.
type HourlyEntry struct {
	DateTime            string   `json:"dateTime"`
	Temp                *float64 `json:"temp,omitempty"`
	Dewpoint            *float64 `json:"dewpoint,omitempty"`
	PressureMsl         *float64 `json:"pressureMsl,omitempty"`
	HumidityRelative    *float64 `json:"humidityRelative,omitempty"`
	PrecCurrent         *float64 `json:"precCurrent,omitempty"`
	Prec6h              *float64 `json:"prec6h,omitempty"`
	Prec12h             *float64 `json:"prec12h,omitempty"`
	Prec24h             *float64 `json:"prec24h,omitempty"`
	PrecTotal           *float64 `json:"precTotal,omitempty"`
	WindSpeed           *float64 `json:"windSpeed,omitempty"`
	WindDirection       *float64 `json:"windDirection,omitempty"`
	WindGust            *float64 `json:"windGust,omitempty"`
	CloudCoverage       *float64 `json:"cloudCoverage,omitempty"`
	CloudCoverageLow    *float64 `json:"cloudCoverageLow,omitempty"`
	CloudCoverageMedium *float64 `json:"cloudCoverageMedium,omitempty"`
	CloudCoverageHigh   *float64 `json:"cloudCoverageHigh,omitempty"`
	SunHours            *float64 `json:"sunHours,omitempty"`
	GlobalRadiation     *float64 `json:"globalRadiation,omitempty"`
	SnowAmount          *float64 `json:"snowAmount,omitempty"`
	SnowHeight          *float64 `json:"snowHeight,omitempty"`
	WeatherSymbol       *string  `json:"weatherSymbol,omitempty"`
	IsDay               *bool    `json:"isDay,omitempty"`
	WmoCode             *int     `json:"wmoCode,omitempty"`
}

// Timestamp parses the entry's ISO-8601 timestamp.
func (h HourlyEntry) Timestamp() (time.Time, error) {
	return time.Parse(time.RFC3339, h.DateTime)
}

// Symbol returns the hour's weather symbol code, or "" when absent.
func (h HourlyEntry) Symbol() string {
	if h.WeatherSymbol == nil {
		return ""
	}
	return *h.WeatherSymbol
}

// Daytime reports the day/night flag for symbol mapping.
func (h HourlyEntry) Daytime() bool {
	if h.IsDay == nil {
		return true
	}
	return *h.IsDay
}

// Snapshot is the complete result of one refresh cycle. It is built once,
// published atomically and never mutated afterwards; readers share it
// without locking. A nil field means the corresponding endpoint failed
// non-fatally or forecast retrieval is disabled, never "empty data".
type Snapshot struct {
	Current      *CurrentReading `json:"current"`
	Daily        []DailyEntry    `json:"forecast"`
	HourlyFine   []HourlyEntry   `json:"forecast_hourly"`
	HourlyCoarse []HourlyEntry   `json:"forecast_hourly_3h"`

	FetchedAt time.Time `json:"-"`
}
