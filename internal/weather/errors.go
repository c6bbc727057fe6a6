package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrGeocodeFailure wraps any reverse geocoding provider error.
	ErrGeocodeFailure = errors.New("geocode failure")
	// ErrNotFound is returned when a geocoder has no result for a coordinate.
	ErrNotFound = errors.New("place not found")
	// ErrProviderFailure wraps network and upstream weather provider errors.
	ErrProviderFailure = errors.New("provider failure")
	// ErrRateLimited is a provider failure caused by rate limiting.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrProviderFailure)
	// ErrInvalidCoordinate is returned for coordinates outside WGS84 ranges.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrSuperseded is returned by a resolution that a newer one replaced.
	ErrSuperseded = errors.New("superseded by a newer request")
)
