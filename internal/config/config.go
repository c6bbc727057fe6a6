package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-timeline/internal/weather"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// RefreshInterval controls how often widget timelines are checked.
	RefreshInterval time.Duration

	// DefaultTimezone is used when no place zone is known. Nil means the
	// process local zone.
	DefaultTimezone *time.Location

	// Geocoder selects the reverse geocoder: "google" or "openweather".
	Geocoder string
	// AlertsProvider selects the alert source: "nws", "weatherapi" or "none".
	AlertsProvider string

	GoogleAPIKey      string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	NWSUserAgent      string

	OpenMeteoURL   string
	OpenWeatherURL string
	WeatherAPIURL  string
	NWSURL         string

	// OpenMeteoRPS caps forecast requests per second (0 = unlimited).
	OpenMeteoRPS float64

	// Redis stream for widget timelines. Empty RedisAddr disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string

	// In-memory timeline retention.
	TimelineMaxHistory int           // max number of timelines per widget (0 = unlimited)
	TimelineMaxAge     time.Duration // max age of timelines (0 = unlimited)

	// Widgets to keep timelines for.
	Widgets []Widget
}

// Widget is a widget entry of the widgets file.
type Widget struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Place     *struct {
		Name     string `yaml:"name"`
		Country  string `yaml:"country"`
		Timezone string `yaml:"timezone"`
	} `yaml:"place"`
}

// Coordinate returns the widget coordinate.
func (w Widget) Coordinate() weather.Coordinate {
	return weather.Coordinate{Latitude: w.Latitude, Longitude: w.Longitude}
}

// WidgetConfig converts the entry to a weather.WidgetConfig. Without a
// place block the place is resolved on every build.
func (w Widget) WidgetConfig() weather.WidgetConfig {
	cfg := weather.WidgetConfig{Coordinate: w.Coordinate()}
	if w.Place != nil {
		cfg.Place = &weather.Place{
			Name:       w.Place.Name,
			Country:    w.Place.Country,
			TimezoneID: w.Place.Timezone,
			Coordinate: w.Coordinate(),
		}
	}
	return cfg
}

type widgetsFile struct {
	Widgets []Widget `yaml:"widgets"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Widget refresh interval: default 15 minutes.
	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	if tz := os.Getenv("DEFAULT_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
		}
		cfg.DefaultTimezone = loc
	}

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", "openweather"))
	switch cfg.Geocoder {
	case "google", "openweather":
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q: use google or openweather", cfg.Geocoder)
	}
	cfg.AlertsProvider = strings.ToLower(getenvDefault("ALERTS_PROVIDER", "nws"))
	switch cfg.AlertsProvider {
	case "nws", "weatherapi", "none":
	default:
		return nil, fmt.Errorf("invalid ALERTS_PROVIDER %q: use nws, weatherapi or none", cfg.AlertsProvider)
	}

	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.NWSUserAgent = os.Getenv("NWS_USER_AGENT")

	cfg.OpenMeteoURL = os.Getenv("OPENMETEO_URL")
	cfg.OpenWeatherURL = os.Getenv("OPENWEATHER_URL")
	cfg.WeatherAPIURL = os.Getenv("WEATHERAPI_URL")
	cfg.NWSURL = os.Getenv("NWS_URL")

	cfg.OpenMeteoRPS = getenvFloat("OPENMETEO_RPS", 5)

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)
	cfg.RedisStream = getenvDefault("REDIS_STREAM", "widget-timelines")

	// Timeline retention.
	cfg.TimelineMaxHistory = getenvInt("TIMELINE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAge, err := time.ParseDuration(getenvDefault("TIMELINE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMELINE_MAX_AGE: %w", err)
	}
	cfg.TimelineMaxAge = maxAge

	if path := os.Getenv("WIDGETS_FILE"); path != "" {
		widgets, err := LoadWidgets(path)
		if err != nil {
			return nil, err
		}
		cfg.Widgets = widgets
	}

	return cfg, nil
}

// LoadWidgets reads the YAML widgets file at path.
func LoadWidgets(path string) ([]Widget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read widgets file %s: %w", path, err)
	}

	var f widgetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse widgets file: %w", err)
	}

	for i, w := range f.Widgets {
		if !w.Coordinate().Valid() {
			return nil, fmt.Errorf("widget %d (%s): %w", i, w.Name, weather.ErrInvalidCoordinate)
		}
	}
	return f.Widgets, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
