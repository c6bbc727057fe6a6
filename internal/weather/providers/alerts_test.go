package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-timeline/internal/weather"
)

func TestNWSFetchAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alerts/active" || r.URL.Query().Get("point") != "39.7392,-104.9903" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(`{"features":[
		  {"id":"urn:1","properties":{"@id":"https://api.weather.gov/alerts/urn:1","event":"Winter Storm Warning","headline":"Winter Storm Warning until 6 PM","severity":"Severe","areaDesc":"Denver","senderName":"NWS Boulder CO"}},
		  {"id":"urn:2","properties":{"event":"Wind Advisory","severity":"Moderate","areaDesc":"Front Range"}}
		]}`))
	}))
	defer srv.Close()

	p := NewNWSProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "test-agent")
	alerts, err := p.FetchAlerts(context.Background(), weather.Coordinate{Latitude: 39.7392, Longitude: -104.9903})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Region != "Denver" || a.Summary != "Winter Storm Warning until 6 PM" || a.Severity != "Severe" || a.Source != "NWS Boulder CO" {
		t.Fatalf("unexpected alert %+v", a)
	}
	if a.DetailsURL != "https://api.weather.gov/alerts/urn:1" {
		t.Fatalf("unexpected details URL %q", a.DetailsURL)
	}
	if alerts[1].Summary != "Wind Advisory" || alerts[1].DetailsURL != "urn:2" {
		t.Fatalf("expected event and id fallbacks, got %+v", alerts[1])
	}
}

func TestNWSNoAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	alerts, err := NewNWSProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "").FetchAlerts(context.Background(), weather.Coordinate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alerts == nil || len(alerts) != 0 {
		t.Fatalf("expected an empty list, got %v", alerts)
	}
}

func TestWeatherAPIFetchAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "secret" || q.Get("alerts") != "yes" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"location":{"region":"Lombardia","country":"Italy"},
		  "alerts":{"alert":[{"headline":"Yellow thunderstorm warning","event":"Thunderstorms","severity":"Moderate","areas":""}]}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(DefaultHTTPConfig(srv.Client()), srv.URL, "secret")
	alerts, err := p.FetchAlerts(context.Background(), weather.Coordinate{Latitude: 45.46, Longitude: 9.19})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Region != "Lombardia" || alerts[0].Summary != "Yellow thunderstorm warning" || alerts[0].Source != "weatherapi" {
		t.Fatalf("unexpected alert %+v", alerts[0])
	}
}

func TestWeatherAPIMissingKey(t *testing.T) {
	p := NewWeatherAPIProvider(DefaultHTTPConfig(http.DefaultClient), "http://127.0.0.1:1", "")
	_, err := p.FetchAlerts(context.Background(), weather.Coordinate{})
	if !errors.Is(err, weather.ErrProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}
}
