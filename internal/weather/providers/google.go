package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-timeline/internal/metrics"
	"github.com/i474232898/weather-timeline/internal/weather"
)

// reverseFunc is the Google reverse geocoding call. Tests replace it.
type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

// geocoderKeyMu guards the package-level key of the geocoder library.
var geocoderKeyMu sync.Mutex

// GoogleGeocoder implements weather.GeoResolver with the Google Geocoding
// API.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	zones   weather.ZoneFinder
	reverse reverseFunc
}

func NewGoogleGeocoder(apiKey string, zones weather.ZoneFinder) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:    "google",
		apiKey:  apiKey,
		zones:   zones,
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type reverseResult struct {
	addresses []geocoder.Address
	err       error
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, c weather.Coordinate) (place *weather.Place, err error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: google %v", weather.ErrGeocodeFailure, errMissingAPIKey)
	}

	start := time.Now()
	defer func() {
		metrics.RecordProviderCall(g.name, "reverse", time.Since(start), err)
	}()

	// The library call blocks without a context; abandon it on cancel.
	done := make(chan reverseResult, 1)
	go func() {
		geocoderKeyMu.Lock()
		geocoder.ApiKey = g.apiKey
		addresses, err := g.reverse(geocoder.Location{Latitude: c.Latitude, Longitude: c.Longitude})
		geocoderKeyMu.Unlock()
		done <- reverseResult{addresses: addresses, err: err}
	}()

	var res reverseResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: google: %v", weather.ErrGeocodeFailure, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%w: google: %v", weather.ErrGeocodeFailure, res.err)
	}
	if len(res.addresses) == 0 {
		return nil, fmt.Errorf("%w: %s", weather.ErrNotFound, c.Key())
	}

	addr := res.addresses[0]
	name := addr.City
	if name == "" {
		name = addr.County
	}
	if name == "" {
		name = addr.State
	}
	place = &weather.Place{
		Name:       name,
		Country:    addr.Country,
		Coordinate: c,
	}
	placeZone(place, g.zones)
	return place, nil
}

var _ weather.GeoResolver = (*GoogleGeocoder)(nil)
