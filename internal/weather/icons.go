package weather

const (
	widgetFallbackSymbol = "arrow.counterclockwise.icloud"
	defaultConditionIcon = "condition-unknown"
)

var conditionIcons = map[Condition]string{
	ConditionClear:                  "condition-clear",
	ConditionCloudy:                 "condition-cloudy",
	ConditionHaze:                   "condition-haze",
	ConditionMostlyClear:            "condition-mostly-clear",
	ConditionMostlyCloudy:           "condition-mostly-cloudy",
	ConditionPartlyCloudy:           "condition-partly-cloudy",
	ConditionScatteredThunderstorms: "condition-scattered-thunderstorms",
	ConditionThunderstorms:          "condition-scattered-thunderstorms",
	ConditionIsolatedThunderstorms:  "condition-scattered-thunderstorms",
	ConditionBreezy:                 "condition-breezy",
	ConditionRain:                   "condition-rain",
	ConditionDrizzle:                "condition-drizzle",
}

// ConditionIcon maps a condition to the main-view icon name. Conditions
// without a dedicated icon fall back to the provider symbol name.
func ConditionIcon(c Condition, fallback string) string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	if fallback != "" {
		return fallback
	}
	return defaultConditionIcon
}

var widgetSymbols = map[Condition]string{
	ConditionClear:                  "sun.max",
	ConditionCloudy:                 "cloud",
	ConditionHaze:                   "sun.haze",
	ConditionMostlyClear:            "cloud.sun",
	ConditionMostlyCloudy:           "cloud",
	ConditionPartlyCloudy:           "cloud.sun",
	ConditionScatteredThunderstorms: "cloud.bolt",
	ConditionBreezy:                 "wind",
}

// WidgetSymbol maps a condition to the lock-screen widget symbol.
func WidgetSymbol(c Condition) string {
	if s, ok := widgetSymbols[c]; ok {
		return s
	}
	return widgetFallbackSymbol
}

// PrecipitationIcon maps a precipitation kind to its icon name.
func PrecipitationIcon(p Precipitation) string {
	switch p {
	case PrecipitationHail:
		return "pp-hail"
	case PrecipitationMixed:
		return "pp-mixed"
	case PrecipitationRain:
		return "pp-rain"
	case PrecipitationSleet:
		return "pp-sleet"
	case PrecipitationSnow:
		return "pp-snow"
	default:
		return "pp-none"
	}
}

var compassPoints = [...]string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// CompassDirection abbreviates a wind direction in degrees.
func CompassDirection(deg float64) string {
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+11.25)/22.5) % len(compassPoints)
	return compassPoints[idx]
}
