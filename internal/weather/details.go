package weather

import (
	"fmt"
	"time"
)

// Celestial holds today's sun events as display labels.
type Celestial struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

const missingClock = "--"

// CelestialFor returns today's sun events, or nil when there is no daily
// point dated today.
func CelestialFor(agg *Aggregate, now time.Time, fallback *time.Location) *Celestial {
	today := agg.TodayDaily(now, fallback)
	if today == nil {
		return nil
	}
	loc := agg.Zone(fallback)
	c := &Celestial{Sunrise: missingClock, Sunset: missingClock}
	if today.Sunrise != nil {
		c.Sunrise = ClockLabel(*today.Sunrise, loc)
	}
	if today.Sunset != nil {
		c.Sunset = ClockLabel(*today.Sunset, loc)
	}
	return c
}

// Section is one of the general data cells.
type Section string

const (
	SectionUV            Section = "uv"
	SectionTemperature   Section = "temperature"
	SectionPrecipitation Section = "precipitation"
	SectionWind          Section = "wind"
	SectionAir           Section = "air"
	SectionPressure      Section = "pressure"
)

// Sections lists the general data cells in display order.
var Sections = []Section{SectionUV, SectionTemperature, SectionPrecipitation, SectionWind, SectionAir, SectionPressure}

// SectionData is the content of a general data cell.
type SectionData struct {
	Section     Section `json:"section"`
	Title       string  `json:"title"`
	Icon        string  `json:"icon"`
	Value       string  `json:"value"`
	Description string  `json:"description"`
	Extra       string  `json:"extra,omitempty"`
}

// SectionFor builds a general data cell. It needs current conditions and
// a daily point dated today; otherwise ok is false.
func SectionFor(agg *Aggregate, section Section, now time.Time, fallback *time.Location) (SectionData, bool) {
	if agg == nil || agg.Current == nil {
		return SectionData{}, false
	}
	today := agg.TodayDaily(now, fallback)
	if today == nil {
		return SectionData{}, false
	}
	cur := agg.Current

	switch section {
	case SectionTemperature:
		return SectionData{
			Section:     section,
			Title:       "Apparent temperature",
			Icon:        ConditionIcon(cur.Condition, ""),
			Value:       fmt.Sprintf("%.1f°C", cur.ApparentTemperature),
			Description: string(cur.Condition),
		}, true
	case SectionUV:
		return SectionData{
			Section:     section,
			Title:       "UV",
			Icon:        "uv",
			Value:       fmt.Sprintf("%.0f", cur.UVIndex),
			Description: uvCategory(cur.UVIndex),
		}, true
	case SectionPrecipitation:
		extra := "No precipitation chances"
		if today.PrecipitationChance > 0 {
			extra = fmt.Sprintf("%.0f%% precipitation chances", today.PrecipitationChance*100)
		}
		return SectionData{
			Section:     section,
			Title:       "Precipitations",
			Icon:        PrecipitationIcon(today.Precipitation),
			Description: string(today.Precipitation),
			Extra:       extra,
		}, true
	case SectionWind:
		d := SectionData{
			Section:     section,
			Title:       "Wind",
			Icon:        "wind",
			Value:       fmt.Sprintf("%d° %s", int(cur.WindDirection), CompassDirection(cur.WindDirection)),
			Description: fmt.Sprintf("%.1f km/h", cur.WindSpeed),
		}
		if cur.WindGust != nil {
			d.Extra = fmt.Sprintf("Gust of %.1f km/h", *cur.WindGust)
		}
		return d, true
	case SectionAir:
		return SectionData{
			Section:     section,
			Title:       "Air humidity",
			Icon:        "humidity",
			Value:       fmt.Sprintf("%.0f%%", cur.Humidity),
			Description: fmt.Sprintf("Visibility up to %.1f km", cur.Visibility/1000),
			Extra:       fmt.Sprintf("Dewpoint is %.1f°C", cur.DewPoint),
		}, true
	case SectionPressure:
		return SectionData{
			Section:     section,
			Title:       "Pressure",
			Icon:        "pressure",
			Value:       fmt.Sprintf("%d", int(cur.Pressure)),
			Description: "hPa",
		}, true
	}
	return SectionData{}, false
}

func uvCategory(uv float64) string {
	switch {
	case uv < 3:
		return "low"
	case uv < 6:
		return "moderate"
	case uv < 8:
		return "high"
	case uv < 11:
		return "very high"
	default:
		return "extreme"
	}
}
