package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-timeline/internal/metrics"
	"github.com/i474232898/weather-timeline/internal/store"
	"github.com/i474232898/weather-timeline/internal/weather"
)

// WidgetSpec is a configured widget to keep a timeline for.
type WidgetSpec struct {
	Name   string
	Config weather.WidgetConfig
}

// Key identifies the widget in the store.
func (w WidgetSpec) Key() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Config.Coordinate.Key()
}

// TimelineBuilder builds a widget timeline.
type TimelineBuilder interface {
	Timeline(ctx context.Context, cfg weather.WidgetConfig) weather.Timeline
}

// Publisher receives every newly built timeline.
type Publisher interface {
	Publish(ctx context.Context, key string, builtAt time.Time, tl weather.Timeline) error
}

// Scheduler periodically rebuilds the timelines of configured widgets
// whose last timeline has run out.
type Scheduler struct {
	scheduler *gocron.Scheduler
	builder   TimelineBuilder
	store     *store.MemoryStore
	publisher Publisher
	widgets   []WidgetSpec
	interval  time.Duration
	now       weather.Clock
}

// New creates a new Scheduler. publisher may be nil.
func New(widgets []WidgetSpec, interval time.Duration, builder TimelineBuilder, st *store.MemoryStore, publisher Publisher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		builder:   builder,
		store:     st,
		publisher: publisher,
		widgets:   widgets,
		interval:  interval,
		now:       time.Now,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.widgets) == 0 {
		log.Println("scheduler: no widgets configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running widget refresh job")
		s.RunOnce(context.Background())
		log.Println("scheduler: completed widget refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every widget whose stored timeline is missing or
// expired, and returns how many were rebuilt.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		rebuilt int
	)
	for _, w := range s.widgets {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if s.refresh(ctx, w) {
				mu.Lock()
				rebuilt++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return rebuilt
}

func (s *Scheduler) refresh(ctx context.Context, w WidgetSpec) bool {
	now := s.now()
	key := w.Key()

	stored, err := s.store.Latest(key)
	if err == nil && !stored.Timeline.Expired(now) {
		return false
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("scheduler: reading timeline for %s failed: %v", key, err)
	}

	tl := s.builder.Timeline(ctx, w.Config)
	s.store.Save(key, now, tl)
	metrics.SetTimelineEntries(key, len(tl.Entries))
	log.Printf("DEBUG: scheduler built %d timeline entries for %s", len(tl.Entries), key)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, key, now, tl); err != nil {
			log.Printf("scheduler: publish failed for %s: %v", key, err)
		}
	}
	return true
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
