package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-timeline/internal/weather"
)

type staticZones string

func (z staticZones) ZoneName(c weather.Coordinate) string { return string(z) }

func TestOpenWeatherResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" || r.URL.Query().Get("appid") != "key" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`[{"name":"Tokyo","lat":35.68,"lon":139.69,"country":"JP","state":"Tokyo"}]`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "key", staticZones("UTC"))
	coord := weather.Coordinate{Latitude: 35.6812, Longitude: 139.7671}
	place, err := p.Resolve(context.Background(), coord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Name != "Tokyo" || place.Country != "JP" || place.Coordinate != coord {
		t.Fatalf("unexpected place %+v", place)
	}
	if place.TimezoneID != "UTC" || place.Zone() == nil {
		t.Fatalf("expected the zone finder result, got %+v", place)
	}
}

func TestOpenWeatherResolveNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "key", nil)
	_, err := p.Resolve(context.Background(), weather.Coordinate{Latitude: 0, Longitude: -140})
	if !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenWeatherResolveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "bad", nil)
	_, err := p.Resolve(context.Background(), weather.Coordinate{})
	if !errors.Is(err, weather.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure, got %v", err)
	}
}

func TestOpenWeatherSearchCities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/direct" || r.URL.Query().Get("q") != "london" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`[
		  {"name":"London","lat":51.51,"lon":-0.13,"country":"GB"},
		  {"name":"London","lat":42.98,"lon":-81.25,"country":"CA"}
		]`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "key", nil)
	cities, err := p.SearchCities(context.Background(), "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 2 || cities[1].Country != "CA" || cities[1].Coordinate.Latitude != 42.98 {
		t.Fatalf("unexpected cities %+v", cities)
	}
}

func TestGoogleGeocoderResolve(t *testing.T) {
	g := NewGoogleGeocoder("key", staticZones(""))
	g.reverse = func(loc geocoder.Location) ([]geocoder.Address, error) {
		if loc.Latitude != -23.56 || loc.Longitude != -46.65 {
			t.Errorf("unexpected location %+v", loc)
		}
		return []geocoder.Address{{City: "São Paulo", State: "SP", Country: "Brazil"}}, nil
	}

	place, err := g.Resolve(context.Background(), weather.Coordinate{Latitude: -23.56, Longitude: -46.65})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Name != "São Paulo" || place.Country != "Brazil" {
		t.Fatalf("unexpected place %+v", place)
	}
	if place.Zone() != nil {
		t.Fatalf("expected no zone when the finder has none, got %v", place.Zone())
	}
}

func TestGoogleGeocoderErrors(t *testing.T) {
	g := NewGoogleGeocoder("key", nil)
	g.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		return nil, nil
	}
	if _, err := g.Resolve(context.Background(), weather.Coordinate{}); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	g.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		return nil, errors.New("REQUEST_DENIED")
	}
	if _, err := g.Resolve(context.Background(), weather.Coordinate{}); !errors.Is(err, weather.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure, got %v", err)
	}

	if _, err := NewGoogleGeocoder("", nil).Resolve(context.Background(), weather.Coordinate{}); !errors.Is(err, weather.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure without a key, got %v", err)
	}
}

func TestGoogleGeocoderCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := NewGoogleGeocoder("key", nil)
	g.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		<-release
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := g.Resolve(ctx, weather.Coordinate{}); !errors.Is(err, weather.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure on cancel, got %v", err)
	}
}
