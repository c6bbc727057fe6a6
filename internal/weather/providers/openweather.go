package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-timeline/internal/weather"
)

const citySearchLimit = 5

// OpenWeatherProvider implements weather.GeoResolver and
// weather.CitySearcher on the OpenWeatherMap geocoding API.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	zones   weather.ZoneFinder
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL, apiKey string, zones weather.ZoneFinder) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/geo/1.0"
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		zones:   zones,
		httpCfg: cfg,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPlace struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

func (p *OpenWeatherProvider) query(ctx context.Context, operation, path string, values url.Values) ([]openWeatherPlace, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather %v", errMissingAPIKey)
	}
	values.Set("appid", p.apiKey)
	u := fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())

	var payload []openWeatherPlace
	if err := getJSON(ctx, p.name, operation, p.httpCfg, p.circuit, newGet(u, nil), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (p *OpenWeatherProvider) Resolve(ctx context.Context, c weather.Coordinate) (*weather.Place, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", c.Latitude))
	values.Set("lon", fmt.Sprintf("%f", c.Longitude))
	values.Set("limit", "1")

	results, err := p.query(ctx, "reverse", "reverse", values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", weather.ErrGeocodeFailure, p.name, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", weather.ErrNotFound, c.Key())
	}

	r := results[0]
	place := &weather.Place{
		Name:       r.Name,
		Country:    r.Country,
		Coordinate: c,
	}
	placeZone(place, p.zones)
	return place, nil
}

func (p *OpenWeatherProvider) SearchCities(ctx context.Context, query string) ([]weather.City, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", fmt.Sprintf("%d", citySearchLimit))

	results, err := p.query(ctx, "direct", "direct", values)
	if err != nil {
		return nil, fmt.Errorf("%s city search: %w", p.name, err)
	}

	cities := make([]weather.City, 0, len(results))
	for _, r := range results {
		cities = append(cities, weather.City{
			Name:       r.Name,
			Country:    r.Country,
			Coordinate: weather.Coordinate{Latitude: r.Lat, Longitude: r.Lon},
		})
	}
	return cities, nil
}

var (
	_ weather.GeoResolver  = (*OpenWeatherProvider)(nil)
	_ weather.CitySearcher = (*OpenWeatherProvider)(nil)
)
