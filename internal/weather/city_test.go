package weather

import (
	"context"
	"errors"
	"testing"
)

type fakeCities struct {
	cities []City
	err    error
	query  string
}

func (f *fakeCities) SearchCities(ctx context.Context, query string) ([]City, error) {
	f.query = query
	return f.cities, f.err
}

func TestDedupCities(t *testing.T) {
	in := []City{
		{Name: "Paris", Country: "FR", Coordinate: Coordinate{Latitude: 48.85, Longitude: 2.35}},
		{Name: "Paris", Country: "US", Coordinate: Coordinate{Latitude: 33.66, Longitude: -95.55}},
		{Name: "Paris", Country: "FR", Coordinate: Coordinate{Latitude: 48.86, Longitude: 2.34}},
	}

	got := DedupCities(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(got))
	}
	if got[0].Country != "FR" || got[0].Coordinate.Latitude != 48.85 {
		t.Fatalf("expected the first Paris, FR to win, got %+v", got[0])
	}
	if got[1].Country != "US" {
		t.Fatalf("expected input order to be kept, got %+v", got[1])
	}
	if !in[0].Equal(in[2]) || in[0].Equal(in[1]) {
		t.Fatalf("equality must only consider name and country")
	}
}

func TestSearchCities(t *testing.T) {
	s := &fakeCities{cities: []City{{Name: "", Country: ""}, {Name: "Springfield", Country: "US"}, {Name: "Springfield", Country: "US"}}}

	got := SearchCities(context.Background(), s, "  spring ")
	if s.query != "spring" {
		t.Fatalf("expected trimmed query, got %q", s.query)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(got))
	}
	if got[0].Label() != "Unknown city, Unknown country" {
		t.Fatalf("unexpected label %q", got[0].Label())
	}
}

func TestSearchCitiesFailure(t *testing.T) {
	got := SearchCities(context.Background(), &fakeCities{err: errors.New("down")}, "oslo")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty list on failure, got %v", got)
	}
	if got := SearchCities(context.Background(), &fakeCities{}, "   "); len(got) != 0 {
		t.Fatalf("expected no results for a blank query, got %v", got)
	}
}
