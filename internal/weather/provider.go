package weather

import (
	"context"
)

// GeoResolver reverse-geocodes a coordinate. It returns ErrNotFound when the
// provider has no match and an error wrapping ErrGeocodeFailure otherwise.
type GeoResolver interface {
	Resolve(ctx context.Context, c Coordinate) (*Place, error)
}

// ForecastProvider abstracts a forecast data source (e.g. Open-Meteo).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, c Coordinate) (*Forecast, error)
}

// AlertProvider abstracts an active-alerts source (e.g. NWS, WeatherAPI).
type AlertProvider interface {
	Name() string
	FetchAlerts(ctx context.Context, c Coordinate) ([]Alert, error)
}

// CitySearcher looks up cities by free-text query.
type CitySearcher interface {
	SearchCities(ctx context.Context, query string) ([]City, error)
}

// ZoneFinder maps a coordinate to an IANA zone name. It returns "" when
// the coordinate is outside every known zone.
type ZoneFinder interface {
	ZoneName(c Coordinate) string
}
