package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-timeline/internal/weather"
)

const defaultNWSUserAgent = "weather-timeline/1.0"

// NWSProvider implements weather.AlertProvider for the US National Weather
// Service. Points outside its coverage return no alerts.
type NWSProvider struct {
	name      string
	baseURL   string
	userAgent string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

func NewNWSProvider(cfg HTTPClientConfig, baseURL, userAgent string) *NWSProvider {
	if baseURL == "" {
		baseURL = "https://api.weather.gov"
	}
	if userAgent == "" {
		userAgent = defaultNWSUserAgent
	}
	return &NWSProvider{
		name:      "nws",
		baseURL:   baseURL,
		userAgent: userAgent,
		httpCfg:   cfg,
		circuit:   newBreaker("nws"),
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

type nwsAlertsPayload struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			ID         string `json:"@id"`
			Event      string `json:"event"`
			Headline   string `json:"headline"`
			Severity   string `json:"severity"`
			AreaDesc   string `json:"areaDesc"`
			SenderName string `json:"senderName"`
		} `json:"properties"`
	} `json:"features"`
}

func (p *NWSProvider) FetchAlerts(ctx context.Context, c weather.Coordinate) ([]weather.Alert, error) {
	u := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", p.baseURL, c.Latitude, c.Longitude)
	header := http.Header{}
	header.Set("User-Agent", p.userAgent)
	header.Set("Accept", "application/geo+json")

	var payload nwsAlertsPayload
	if err := getJSON(ctx, p.name, "alerts", p.httpCfg, p.circuit, newGet(u, header), &payload); err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}

	alerts := make([]weather.Alert, 0, len(payload.Features))
	for _, f := range payload.Features {
		summary := f.Properties.Headline
		if summary == "" {
			summary = f.Properties.Event
		}
		details := f.Properties.ID
		if details == "" {
			details = f.ID
		}
		alerts = append(alerts, weather.Alert{
			Region:     f.Properties.AreaDesc,
			Summary:    summary,
			Severity:   f.Properties.Severity,
			Source:     f.Properties.SenderName,
			DetailsURL: details,
		})
	}
	return alerts, nil
}

var _ weather.AlertProvider = (*NWSProvider)(nil)
