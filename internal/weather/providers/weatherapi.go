package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-timeline/internal/weather"
)

// WeatherAPIProvider implements weather.AlertProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, baseURL, apiKey string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1/forecast.json"
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIAlertsPayload struct {
	Location struct {
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Alerts struct {
		Alert []struct {
			Headline string `json:"headline"`
			Event    string `json:"event"`
			Severity string `json:"severity"`
			Areas    string `json:"areas"`
			Note     string `json:"note"`
		} `json:"alert"`
	} `json:"alerts"`
}

func (p *WeatherAPIProvider) FetchAlerts(ctx context.Context, c weather.Coordinate) ([]weather.Alert, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("provider %s: %w: %v", p.name, weather.ErrProviderFailure, errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", c.Latitude, c.Longitude))
	values.Set("days", "1")
	values.Set("alerts", "yes")
	values.Set("aqi", "no")
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload weatherAPIAlertsPayload
	if err := getJSON(ctx, p.name, "alerts", p.httpCfg, p.circuit, newGet(u, nil), &payload); err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}

	alerts := make([]weather.Alert, 0, len(payload.Alerts.Alert))
	for _, a := range payload.Alerts.Alert {
		region := a.Areas
		if region == "" {
			region = payload.Location.Region
		}
		summary := a.Headline
		if summary == "" {
			summary = a.Event
		}
		alerts = append(alerts, weather.Alert{
			Region:   region,
			Summary:  summary,
			Severity: a.Severity,
			Source:   p.name,
		})
	}
	return alerts, nil
}

var _ weather.AlertProvider = (*WeatherAPIProvider)(nil)
