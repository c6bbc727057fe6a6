package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-timeline/internal/weather"
)

const forecastDays = 10

var (
	openMeteoCurrent = []string{
		"temperature_2m", "apparent_temperature", "relative_humidity_2m",
		"weather_code", "wind_speed_10m", "wind_direction_10m", "wind_gusts_10m",
		"surface_pressure", "uv_index", "visibility", "dew_point_2m", "is_day",
	}
	openMeteoHourly = []string{"weather_code", "apparent_temperature", "precipitation_probability"}
	openMeteoDaily  = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"precipitation_probability_max", "precipitation_sum", "rain_sum",
		"snowfall_sum", "uv_index_max", "sunrise", "sunset",
	}
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time                int64    `json:"time"`
		Temperature         float64  `json:"temperature_2m"`
		ApparentTemperature float64  `json:"apparent_temperature"`
		Humidity            float64  `json:"relative_humidity_2m"`
		WeatherCode         int      `json:"weather_code"`
		WindSpeed           float64  `json:"wind_speed_10m"`
		WindDirection       float64  `json:"wind_direction_10m"`
		WindGust            *float64 `json:"wind_gusts_10m"`
		Pressure            float64  `json:"surface_pressure"`
		UVIndex             float64  `json:"uv_index"`
		Visibility          float64  `json:"visibility"`
		DewPoint            float64  `json:"dew_point_2m"`
		IsDay               int      `json:"is_day"`
	} `json:"current"`
	Hourly struct {
		Time                []int64    `json:"time"`
		WeatherCode         []int      `json:"weather_code"`
		ApparentTemperature []float64  `json:"apparent_temperature"`
		PrecipProbability   []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily struct {
		Time              []int64    `json:"time"`
		WeatherCode       []int      `json:"weather_code"`
		TempMax           []float64  `json:"temperature_2m_max"`
		TempMin           []float64  `json:"temperature_2m_min"`
		PrecipProbability []*float64 `json:"precipitation_probability_max"`
		PrecipSum         []float64  `json:"precipitation_sum"`
		RainSum           []float64  `json:"rain_sum"`
		SnowfallSum       []float64  `json:"snowfall_sum"`
		UVIndexMax        []float64  `json:"uv_index_max"`
		Sunrise           []int64    `json:"sunrise"`
		Sunset            []int64    `json:"sunset"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, c weather.Coordinate) (*weather.Forecast, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", c.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", c.Longitude))
	values.Set("current", strings.Join(openMeteoCurrent, ","))
	values.Set("hourly", strings.Join(openMeteoHourly, ","))
	values.Set("daily", strings.Join(openMeteoDaily, ","))
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")
	values.Set("forecast_days", fmt.Sprintf("%d", forecastDays))

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload openMeteoPayload
	if err := getJSON(ctx, p.name, "forecast", p.httpCfg, p.circuit, newGet(u, nil), &payload); err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}
	return payload.toForecast(c), nil
}

func (pl *openMeteoPayload) toForecast(c weather.Coordinate) *weather.Forecast {
	fc := &weather.Forecast{
		Coordinate: c,
		TimezoneID: pl.Timezone,
		Hourly:     make([]weather.ForecastPoint, 0, len(pl.Hourly.Time)),
		Daily:      make([]weather.ForecastPoint, 0, len(pl.Daily.Time)),
	}

	cur := pl.Current
	if cur.Time != 0 {
		fc.Current = &weather.WeatherSnapshot{
			Time:                time.Unix(cur.Time, 0).UTC(),
			Coordinate:          c,
			Temperature:         cur.Temperature,
			ApparentTemperature: cur.ApparentTemperature,
			Condition:           mapOpenMeteoCondition(cur.WeatherCode),
			WindSpeed:           cur.WindSpeed,
			WindDirection:       cur.WindDirection,
			WindGust:            cur.WindGust,
			Humidity:            cur.Humidity,
			Pressure:            cur.Pressure,
			UVIndex:             cur.UVIndex,
			Visibility:          cur.Visibility,
			DewPoint:            cur.DewPoint,
			IsDaylight:          cur.IsDay == 1,
		}
	}

	h := pl.Hourly
	for i, ts := range h.Time {
		code := intAt(h.WeatherCode, i)
		fc.Hourly = append(fc.Hourly, weather.ForecastPoint{
			Date:                time.Unix(ts, 0).UTC(),
			Granularity:         weather.Hourly,
			Condition:           mapOpenMeteoCondition(code),
			SymbolName:          fmt.Sprintf("wmo-%d", code),
			PrecipitationChance: chanceAt(h.PrecipProbability, i),
			ApparentTemperature: floatAt(h.ApparentTemperature, i),
		})
	}

	d := pl.Daily
	for i, ts := range d.Time {
		code := intAt(d.WeatherCode, i)
		fc.Daily = append(fc.Daily, weather.ForecastPoint{
			Date:                time.Unix(ts, 0).UTC(),
			Granularity:         weather.Daily,
			Condition:           mapOpenMeteoCondition(code),
			SymbolName:          fmt.Sprintf("wmo-%d", code),
			PrecipitationChance: chanceAt(d.PrecipProbability, i),
			High:                floatAt(d.TempMax, i),
			Low:                 floatAt(d.TempMin, i),
			Precipitation:       precipitationKind(code, floatAt(d.RainSum, i), floatAt(d.SnowfallSum, i), floatAt(d.PrecipSum, i)),
			PrecipitationAmount: floatAt(d.PrecipSum, i),
			UVIndexMax:          floatAt(d.UVIndexMax, i),
			Sunrise:             unixAt(d.Sunrise, i),
			Sunset:              unixAt(d.Sunset, i),
		})
	}
	return fc
}

func intAt(v []int, i int) int {
	if i < len(v) {
		return v[i]
	}
	return -1
}

func floatAt(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// chanceAt converts a percentage to a 0..1 fraction.
func chanceAt(v []*float64, i int) float64 {
	if i < len(v) && v[i] != nil {
		return *v[i] / 100
	}
	return 0
}

func unixAt(v []int64, i int) *time.Time {
	if i < len(v) && v[i] != 0 {
		t := time.Unix(v[i], 0).UTC()
		return &t
	}
	return nil
}

func precipitationKind(code int, rain, snow, total float64) weather.Precipitation {
	switch {
	case code == 96 || code == 99:
		return weather.PrecipitationHail
	case code == 56 || code == 57 || code == 66 || code == 67:
		return weather.PrecipitationSleet
	case rain > 0 && snow > 0:
		return weather.PrecipitationMixed
	case snow > 0:
		return weather.PrecipitationSnow
	case rain > 0 || total > 0:
		return weather.PrecipitationRain
	default:
		return weather.PrecipitationNone
	}
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// WMO weather interpretation codes.
	switch {
	case code == 0:
		return weather.ConditionClear
	case code == 1:
		return weather.ConditionMostlyClear
	case code == 2:
		return weather.ConditionPartlyCloudy
	case code == 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionFoggy
	case code >= 51 && code <= 57:
		return weather.ConditionDrizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code == 95:
		return weather.ConditionScatteredThunderstorms
	case code == 96 || code == 99:
		return weather.ConditionThunderstorms
	default:
		return weather.ConditionUnknown
	}
}

var _ weather.ForecastProvider = (*OpenMeteoProvider)(nil)
