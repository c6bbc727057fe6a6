package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	unknownCity    = "Unknown city"
	unknownCountry = "Unknown country"
)

// City is a search result. Identity is (Name, Country); the coordinate
// does not take part in equality.
type City struct {
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	Coordinate Coordinate `json:"coordinate"`
}

// Key returns the identity key of the city.
func (c City) Key() string {
	return c.Name + ":" + c.Country
}

// Equal reports whether two cities have the same name and country.
func (c City) Equal(o City) bool {
	return c.Name == o.Name && c.Country == o.Country
}

// Label is the "name, country" display string.
func (c City) Label() string {
	return fmt.Sprintf("%s, %s", c.Name, c.Country)
}

// DedupCities collapses cities with the same identity, keeping the first
// occurrence and the input order.
func DedupCities(cities []City) []City {
	seen := make(map[string]struct{}, len(cities))
	out := make([]City, 0, len(cities))
	for _, c := range cities {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SearchCities runs a city query, fills missing names and returns a
// deduplicated list. Errors are logged and yield an empty list.
func SearchCities(ctx context.Context, s CitySearcher, query string) []City {
	query = strings.TrimSpace(query)
	if s == nil || query == "" {
		return []City{}
	}

	cities, err := s.SearchCities(ctx, query)
	if err != nil {
		log.Printf("ERROR: city search failed for %q: %v", query, err)
		return []City{}
	}

	for i := range cities {
		if cities[i].Name == "" {
			cities[i].Name = unknownCity
		}
		if cities[i].Country == "" {
			cities[i].Country = unknownCountry
		}
	}
	return DedupCities(cities)
}
