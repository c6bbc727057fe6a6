package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-timeline/internal/metrics"
)

// State is what the rendering layer pulls: the latest aggregate and
// whether a fetch for the latest coordinate is still outstanding.
type State struct {
	Aggregate *Aggregate `json:"aggregate"`
	Loading   bool       `json:"loading"`
}

// Service orchestrates place resolution and weather fetches for the most
// recently reported coordinate.
type Service struct {
	geo    GeoResolver
	source *Source
	now    Clock

	mu         sync.Mutex
	generation uint64
	state      State
	updates    chan struct{}
}

// NewService creates a new Service.
func NewService(geo GeoResolver, source *Source) *Service {
	return &Service{
		geo:     geo,
		source:  source,
		now:     time.Now,
		updates: make(chan struct{}, 1),
	}
}

// WithClock replaces the clock used to stamp aggregates.
func (s *Service) WithClock(now Clock) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Fetch resolves the place and fetches forecast and alerts for c
// concurrently, waiting for all three. A failing operation never cancels
// its siblings: its error is kept on the aggregate and the field falls back
// to prior's value when prior is for the same coordinate, or to empty.
func (s *Service) Fetch(ctx context.Context, c Coordinate, prior *Aggregate) *Aggregate {
	start := time.Now()
	agg := &Aggregate{
		CycleID:    uuid.NewString(),
		Coordinate: c,
		FetchedAt:  s.now(),
	}

	var (
		g        errgroup.Group
		forecast *Forecast
		alerts   []Alert
	)

	// Each goroutine owns a distinct field; none returns an error so the
	// group never short-circuits.
	g.Go(func() error {
		if s.geo == nil {
			agg.Errors.Place = fmt.Errorf("%w: no geocoder configured", ErrGeocodeFailure)
			return nil
		}
		place, err := s.geo.Resolve(ctx, c)
		if err != nil {
			agg.Errors.Place = err
			return nil
		}
		agg.Place = place
		return nil
	})
	g.Go(func() error {
		fc, err := s.source.Forecast(ctx, c)
		if err != nil {
			agg.Errors.Forecast = err
			return nil
		}
		forecast = fc
		return nil
	})
	g.Go(func() error {
		al, err := s.source.Alerts(ctx, c)
		if err != nil {
			agg.Errors.Alerts = err
			return nil
		}
		alerts = al
		return nil
	})
	_ = g.Wait()

	if forecast != nil {
		agg.Current = forecast.Current
		agg.Hourly = forecast.Hourly
		agg.Daily = forecast.Daily
		agg.ForecastZoneID = forecast.TimezoneID
	}
	agg.Alerts = alerts

	if agg.Place != nil && agg.Place.Zone() == nil && agg.ForecastZoneID != "" {
		place := *agg.Place
		place.TimezoneID = agg.ForecastZoneID
		if loc, err := time.LoadLocation(agg.ForecastZoneID); err == nil {
			place.Timezone = loc
		}
		agg.Place = &place
	}

	if agg.Errors.Place != nil {
		log.Printf("geocode failed for %s: %v", c.Key(), agg.Errors.Place)
	}
	if agg.Errors.Forecast != nil {
		log.Printf("forecast fetch failed for %s: %v", c.Key(), agg.Errors.Forecast)
	}
	if agg.Errors.Alerts != nil {
		log.Printf("alerts fetch failed for %s: %v", c.Key(), agg.Errors.Alerts)
	}

	agg.withPrior(prior)

	outcome := "complete"
	if agg.Errors.Partial() {
		outcome = "partial"
	}
	metrics.RecordFetchCycle(outcome, time.Since(start))
	log.Printf("DEBUG: fetch cycle %s for %s finished (%s) in %s", agg.CycleID, c.Key(), outcome, time.Since(start).Round(time.Millisecond))

	return agg
}

// Locate reports a new coordinate. The latest coordinate always wins: an
// outstanding fetch for an older one is not waited on, and its result is
// dropped when it arrives. The returned channel closes when this cycle has
// been published or dropped. ctx must outlive the fetch.
func (s *Service) Locate(ctx context.Context, c Coordinate) <-chan struct{} {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	prior := s.state.Aggregate
	s.state.Loading = true
	s.mu.Unlock()

	metrics.SetLoading(true)
	s.notify()

	done := make(chan struct{})
	go func() {
		defer close(done)

		agg := s.Fetch(ctx, c, prior)

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			log.Printf("INFO: dropping stale fetch cycle %s for %s", agg.CycleID, c.Key())
			metrics.RecordFetchCycle("stale", 0)
			return
		}
		s.state = State{Aggregate: agg, Loading: false}
		s.mu.Unlock()

		metrics.SetLoading(false)
		s.notify()
	}()
	return done
}

// State returns the current aggregate and loading flag.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates signals state changes. Notifications coalesce: a reader that
// falls behind sees one pending signal and should pull State.
func (s *Service) Updates() <-chan struct{} {
	return s.updates
}

func (s *Service) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
