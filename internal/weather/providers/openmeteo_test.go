package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-timeline/internal/weather"
)

const openMeteoBody = `{
  "timezone": "Europe/Paris",
  "current": {
    "time": 1718013600,
    "temperature_2m": 21.4,
    "apparent_temperature": 20.9,
    "relative_humidity_2m": 58,
    "weather_code": 2,
    "wind_speed_10m": 11.2,
    "wind_direction_10m": 250,
    "wind_gusts_10m": 24.1,
    "surface_pressure": 1009.8,
    "uv_index": 5.1,
    "visibility": 24140,
    "dew_point_2m": 12.6,
    "is_day": 1
  },
  "hourly": {
    "time": [1718010000, 1718013600],
    "weather_code": [1, 61],
    "apparent_temperature": [20.1, 20.9],
    "precipitation_probability": [5, null]
  },
  "daily": {
    "time": [1717970400],
    "weather_code": [73],
    "temperature_2m_max": [24.5],
    "temperature_2m_min": [13.2],
    "precipitation_probability_max": [70],
    "precipitation_sum": [3.4],
    "rain_sum": [0],
    "snowfall_sum": [2.1],
    "uv_index_max": [6.3],
    "sunrise": [1717991100],
    "sunset": [1718048700]
  }
}`

func TestOpenMeteoFetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("timezone") != "auto" || q.Get("timeformat") != "unixtime" || q.Get("forecast_days") != "10" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("latitude") != "48.856600" {
			t.Errorf("unexpected latitude %q", q.Get("latitude"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(DefaultHTTPConfig(srv.Client()), srv.URL)
	fc, err := p.FetchForecast(context.Background(), weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fc.TimezoneID != "Europe/Paris" {
		t.Fatalf("unexpected timezone %q", fc.TimezoneID)
	}
	if fc.Current == nil || fc.Current.Condition != weather.ConditionPartlyCloudy || !fc.Current.IsDaylight {
		t.Fatalf("unexpected current conditions %+v", fc.Current)
	}
	if fc.Current.WindGust == nil || *fc.Current.WindGust != 24.1 {
		t.Fatalf("unexpected gust %+v", fc.Current.WindGust)
	}
	if len(fc.Hourly) != 2 {
		t.Fatalf("expected 2 hourly points, got %d", len(fc.Hourly))
	}
	if fc.Hourly[0].PrecipitationChance != 0.05 || fc.Hourly[1].PrecipitationChance != 0 {
		t.Fatalf("unexpected hourly chances %v %v", fc.Hourly[0].PrecipitationChance, fc.Hourly[1].PrecipitationChance)
	}
	if fc.Hourly[1].Condition != weather.ConditionRain || fc.Hourly[1].Granularity != weather.Hourly {
		t.Fatalf("unexpected hourly point %+v", fc.Hourly[1])
	}
	if !fc.Hourly[0].Date.Equal(time.Unix(1718010000, 0)) {
		t.Fatalf("unexpected hourly date %v", fc.Hourly[0].Date)
	}

	if len(fc.Daily) != 1 {
		t.Fatalf("expected 1 daily point, got %d", len(fc.Daily))
	}
	d := fc.Daily[0]
	if d.Granularity != weather.Daily || d.High != 24.5 || d.Low != 13.2 {
		t.Fatalf("unexpected daily point %+v", d)
	}
	if d.Condition != weather.ConditionSnow || d.Precipitation != weather.PrecipitationSnow || d.SymbolName != "wmo-73" {
		t.Fatalf("unexpected daily condition %+v", d)
	}
	if d.Sunrise == nil || !d.Sunrise.Equal(time.Unix(1717991100, 0)) || d.Sunset == nil {
		t.Fatalf("unexpected sun events %+v %+v", d.Sunrise, d.Sunset)
	}
}

func TestOpenMeteoStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusTooManyRequests, weather.ErrRateLimited},
		{http.StatusInternalServerError, weather.ErrProviderFailure},
		{http.StatusBadRequest, weather.ErrProviderFailure},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		p := NewOpenMeteoProvider(DefaultHTTPConfig(srv.Client()), srv.URL)
		_, err := p.FetchForecast(context.Background(), weather.Coordinate{})
		if !errors.Is(err, tt.target) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.target, err)
		}
		srv.Close()
	}
}

func TestOpenMeteoDoesNotRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(DefaultHTTPConfig(srv.Client()), srv.URL)
	if _, err := p.FetchForecast(context.Background(), weather.Coordinate{}); err == nil {
		t.Fatalf("expected an error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestOpenMeteoRetriesWhenConfigured(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	cfg := DefaultHTTPConfig(srv.Client())
	cfg.Backoff.MaxRetries = 1
	cfg.Backoff.InitialInterval = time.Millisecond

	p := NewOpenMeteoProvider(cfg, srv.URL)
	if _, err := p.FetchForecast(context.Background(), weather.Coordinate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestOpenMeteoRateLimiter(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	cfg := DefaultHTTPConfig(srv.Client())
	cfg.Limiter = NewLimiter(0.001, 1)

	p := NewOpenMeteoProvider(cfg, srv.URL)
	if _, err := p.FetchForecast(context.Background(), weather.Coordinate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := p.FetchForecast(context.Background(), weather.Coordinate{})
	if !errors.Is(err, weather.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("limited request must not reach the server, got %d hits", got)
	}
}

func TestNewLimiterDisabled(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("a disabled limiter must always allow")
		}
	}
}

func TestMapOpenMeteoCondition(t *testing.T) {
	tests := map[int]weather.Condition{
		0:  weather.ConditionClear,
		1:  weather.ConditionMostlyClear,
		3:  weather.ConditionCloudy,
		45: weather.ConditionFoggy,
		53: weather.ConditionDrizzle,
		81: weather.ConditionRain,
		86: weather.ConditionSnow,
		95: weather.ConditionScatteredThunderstorms,
		99: weather.ConditionThunderstorms,
		-1: weather.ConditionUnknown,
	}
	for code, want := range tests {
		if got := mapOpenMeteoCondition(code); got != want {
			t.Errorf("code %d: expected %s, got %s", code, want, got)
		}
	}
}
