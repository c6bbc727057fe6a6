package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-timeline/internal/weather"
)

var (
	// ErrNotFound is returned when no timeline is stored for a widget.
	ErrNotFound = errors.New("no timeline for widget")
)

// StoredTimeline is a timeline plus the time it was built.
type StoredTimeline struct {
	BuiltAt  time.Time        `json:"builtAt"`
	Timeline weather.Timeline `json:"timeline"`
}

// TimelineHistory holds the time-ordered timelines built for a widget.
type TimelineHistory struct {
	Timelines []StoredTimeline
}

// MemoryStore is a concurrency-safe in-memory store of widget timelines.
type MemoryStore struct {
	mu sync.RWMutex

	// key: widget key, value: history
	data map[string]*TimelineHistory

	// retention configuration
	maxHistory int           // max number of timelines per widget
	maxAge     time.Duration // optional max age for timelines
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*TimelineHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a timeline for a widget and enforces retention. The latest
// timeline is never dropped.
func (s *MemoryStore) Save(key string, builtAt time.Time, tl weather.Timeline) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &TimelineHistory{}
		s.data[key] = history
	}

	history.Timelines = append(history.Timelines, StoredTimeline{BuiltAt: builtAt, Timeline: tl})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Timelines) > s.maxHistory {
		over := len(history.Timelines) - s.maxHistory
		history.Timelines = history.Timelines[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := builtAt.Add(-s.maxAge)
		i := 0
		for ; i < len(history.Timelines)-1; i++ {
			if !history.Timelines[i].BuiltAt.Before(cutoff) {
				break
			}
		}
		history.Timelines = history.Timelines[i:]
	}
}

// Latest returns the most recent timeline for a widget.
func (s *MemoryStore) Latest(key string) (StoredTimeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Timelines) == 0 {
		return StoredTimeline{}, ErrNotFound
	}
	return history.Timelines[len(history.Timelines)-1], nil
}

// History returns all timelines for a widget built between from and to
// (inclusive).
func (s *MemoryStore) History(key string, from, to time.Time) ([]StoredTimeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Timelines) == 0 {
		return nil, ErrNotFound
	}

	var result []StoredTimeline
	for _, st := range history.Timelines {
		if !st.BuiltAt.Before(from) && !st.BuiltAt.After(to) {
			result = append(result, st)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
