package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown                Condition = "unknown"
	ConditionClear                  Condition = "clear"
	ConditionMostlyClear            Condition = "mostlyClear"
	ConditionPartlyCloudy           Condition = "partlyCloudy"
	ConditionMostlyCloudy           Condition = "mostlyCloudy"
	ConditionCloudy                 Condition = "cloudy"
	ConditionHaze                   Condition = "haze"
	ConditionFoggy                  Condition = "foggy"
	ConditionBreezy                 Condition = "breezy"
	ConditionDrizzle                Condition = "drizzle"
	ConditionRain                   Condition = "rain"
	ConditionSnow                   Condition = "snow"
	ConditionScatteredThunderstorms Condition = "scatteredThunderstorms"
	ConditionIsolatedThunderstorms  Condition = "isolatedThunderstorms"
	ConditionThunderstorms          Condition = "thunderstorms"
)

// Precipitation is the dominant precipitation kind of a day.
type Precipitation string

const (
	PrecipitationNone  Precipitation = "none"
	PrecipitationRain  Precipitation = "rain"
	PrecipitationSnow  Precipitation = "snow"
	PrecipitationSleet Precipitation = "sleet"
	PrecipitationHail  Precipitation = "hail"
	PrecipitationMixed Precipitation = "mixed"
)

// Coordinate is a captured position in degrees. Treat as immutable.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Key returns a canonical string key for indexing this coordinate in stores.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Place is a reverse-geocoded coordinate. It goes stale whenever the
// coordinate it was resolved for changes.
type Place struct {
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	TimezoneID string     `json:"timezone"`
	Coordinate Coordinate `json:"coordinate"`

	Timezone *time.Location `json:"-"`
}

// Zone returns the place timezone, or nil if it was not resolved.
func (p *Place) Zone() *time.Location {
	if p == nil {
		return nil
	}
	if p.Timezone != nil {
		return p.Timezone
	}
	if p.TimezoneID == "" {
		return nil
	}
	loc, err := time.LoadLocation(p.TimezoneID)
	if err != nil {
		return nil
	}
	return loc
}

// WeatherSnapshot holds current conditions at a single instant.
type WeatherSnapshot struct {
	Time                time.Time  `json:"time"`
	Coordinate          Coordinate `json:"coordinate"`
	Temperature         float64    `json:"temperatureC"`
	ApparentTemperature float64    `json:"apparentTemperatureC"`
	Condition           Condition  `json:"condition"`
	WindSpeed           float64    `json:"windSpeedKph"`
	WindDirection       float64    `json:"windDirectionDeg"`
	WindGust            *float64   `json:"windGustKph,omitempty"`
	Humidity            float64    `json:"humidityPercent"`
	Pressure            float64    `json:"pressureHpa"`
	UVIndex             float64    `json:"uvIndex"`
	Visibility          float64    `json:"visibilityM"`
	DewPoint            float64    `json:"dewPointC"`
	IsDaylight          bool       `json:"isDaylight"`
}

// Granularity tells daily forecast points from hourly ones.
type Granularity string

const (
	Daily  Granularity = "daily"
	Hourly Granularity = "hourly"
)

// ForecastPoint is one daily or hourly forecast entry. High and Low are
// only meaningful for daily points and ApparentTemperature only for hourly
// ones. IsCurrent is derived from a reference clock each time points are
// selected; it is never read back from storage.
type ForecastPoint struct {
	Date                time.Time     `json:"date"`
	Granularity         Granularity   `json:"granularity"`
	Condition           Condition     `json:"condition"`
	SymbolName          string        `json:"symbolName,omitempty"`
	PrecipitationChance float64       `json:"precipitationChance"`
	High                float64       `json:"highC,omitempty"`
	Low                 float64       `json:"lowC,omitempty"`
	ApparentTemperature float64       `json:"apparentTemperatureC,omitempty"`
	Precipitation       Precipitation `json:"precipitation,omitempty"`
	PrecipitationAmount float64       `json:"precipitationMm,omitempty"`
	UVIndexMax          float64       `json:"uvIndexMax,omitempty"`
	Sunrise             *time.Time    `json:"sunrise,omitempty"`
	Sunset              *time.Time    `json:"sunset,omitempty"`
	IsCurrent           bool          `json:"isCurrent"`
}

// Alert is an active weather alert. Alerts live as long as the fetch that
// produced them.
type Alert struct {
	Region     string `json:"region"`
	Summary    string `json:"summary"`
	Severity   string `json:"severity"`
	Source     string `json:"source"`
	DetailsURL string `json:"detailsUrl,omitempty"`
}

// Forecast is everything a ForecastProvider returns for one coordinate.
type Forecast struct {
	Coordinate Coordinate       `json:"coordinate"`
	TimezoneID string           `json:"timezone,omitempty"`
	Current    *WeatherSnapshot `json:"current,omitempty"`
	Hourly     []ForecastPoint  `json:"hourly"`
	Daily      []ForecastPoint  `json:"daily"`
}
