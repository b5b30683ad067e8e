package weather

// conditionsBySymbol maps Kachelmann Wetter symbol codes to normalized
// conditions. Built once at init, read-only afterwards.
var conditionsBySymbol = map[string]Condition{
	"sunshine":             ConditionSunny,
	"sunshine_night":       ConditionClearNight,
	"partlycloudy":         ConditionPartlyCloudy,
	"partlycloudy2":        ConditionPartlyCloudy,
	"cloudy":               ConditionCloudy,
	"overcast":             ConditionCloudy,
	"fog":                  ConditionFog,
	"windy":                ConditionWindy,
	"rain":                 ConditionRainy,
	"rain_light":           ConditionRainy,
	"rain_moderate":        ConditionRainy,
	"rainheavy":            ConditionLightningRainy,
	"showers_light":        ConditionRainy,
	"showers_moderate":     ConditionRainy,
	"showers_rain_light":   ConditionRainy,
	"showersheavy":         ConditionPouring,
	"thunderstorm":         ConditionLightning,
	"hail":                 ConditionHail,
	"snow":                 ConditionSnowy,
	"snowheavy":            ConditionSnowy,
	"snowshowers":          ConditionSnowy,
	"snowshowersheavy":     ConditionSnowy,
	"snowrain":             ConditionSnowyRainy,
	"snowrainheavy":        ConditionSnowyRainy,
	"snowrainshowers":      ConditionSnowyRainy,
	"snowrainshowersheavy": ConditionSnowyRainy,
}

// MapCondition resolves a provider symbol code to a normalized condition.
// The provider reports "sunshine" for a clear sky by day and by night, so
// the day flag decides between sunny and clear-night. Empty or unknown
// symbols report ok=false and are never an error.
func MapCondition(symbol string, isDay bool) (Condition, bool) {
	if symbol == "" {
		return "", false
	}
	if symbol == "sunshine" && !isDay {
		return ConditionClearNight, true
	}
	cond, ok := conditionsBySymbol[symbol]
	if !ok {
		return "", false
	}
	return cond, true
}
