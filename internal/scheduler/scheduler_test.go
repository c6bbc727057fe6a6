package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-timeline/internal/store"
	"github.com/i474232898/weather-timeline/internal/weather"
)

type fakeBuilder struct {
	mu    sync.Mutex
	now   func() time.Time
	calls int
	empty bool
}

func (b *fakeBuilder) Timeline(ctx context.Context, cfg weather.WidgetConfig) weather.Timeline {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.empty {
		return weather.Timeline{Entries: []weather.TimelineEntry{}, Policy: weather.RefreshAtEnd}
	}
	start := b.now()
	return weather.Timeline{
		Entries: []weather.TimelineEntry{{Date: start}, {Date: start.Add(time.Hour)}, {Date: start.Add(2 * time.Hour)}},
		Policy:  weather.RefreshAtEnd,
	}
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, builtAt time.Time, tl weather.Timeline) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func TestRunOnceRefreshesAtEnd(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	builder := &fakeBuilder{now: clock}
	st := store.NewMemoryStore(10, 0)
	pub := &fakePublisher{}
	widgets := []WidgetSpec{
		{Name: "home", Config: weather.WidgetConfig{Coordinate: weather.Coordinate{Latitude: 1, Longitude: 1}}},
		{Config: weather.WidgetConfig{Coordinate: weather.Coordinate{Latitude: 2, Longitude: 2}}},
	}
	s := New(widgets, time.Minute, builder, st, pub)
	s.now = clock

	if got := s.RunOnce(context.Background()); got != 2 {
		t.Fatalf("expected 2 rebuilt widgets, got %d", got)
	}
	if len(pub.keys) != 2 {
		t.Fatalf("expected 2 published timelines, got %d", len(pub.keys))
	}
	if _, err := st.Latest("2.0000,2.0000"); err != nil {
		t.Fatalf("expected a timeline under the coordinate key: %v", err)
	}

	now = now.Add(90 * time.Minute)
	if got := s.RunOnce(context.Background()); got != 0 {
		t.Fatalf("expected no rebuild before the last entry, got %d", got)
	}

	now = now.Add(30 * time.Minute)
	if got := s.RunOnce(context.Background()); got != 2 {
		t.Fatalf("expected a rebuild at the last entry, got %d", got)
	}
	if builder.calls != 4 {
		t.Fatalf("expected 4 builds, got %d", builder.calls)
	}
}

func TestRunOnceRetriesEmptyTimelines(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	builder := &fakeBuilder{empty: true}
	pub := &fakePublisher{err: errors.New("redis down")}
	s := New([]WidgetSpec{{Name: "home"}}, time.Minute, builder, store.NewMemoryStore(0, 0), pub)
	s.now = func() time.Time { return now }

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	if builder.calls != 2 {
		t.Fatalf("an empty timeline must be rebuilt on every run, got %d builds", builder.calls)
	}
}

func TestStartWithoutWidgets(t *testing.T) {
	s := New(nil, time.Minute, &fakeBuilder{}, store.NewMemoryStore(0, 0), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
