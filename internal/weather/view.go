package weather

import (
	"sync"
	"time"
)

const (
	placeholderDailyItems  = 10
	placeholderHourlyItems = 24
)

// Model is the main-view model the rendering layer reads. It holds the
// current projections, the display mode and the one-shot auto-scroll index.
type Model struct {
	mu         sync.Mutex
	fallback   *time.Location
	mode       DisplayMode
	autoScroll bool
	agg        *Aggregate
	proj       Projection
}

// NewModel creates a Model in daily mode. fallback is the zone used when
// no place was resolved; nil means the process local zone.
func NewModel(fallback *time.Location) *Model {
	return &Model{
		fallback:   zoneOr(fallback),
		mode:       ModeDaily,
		autoScroll: true,
		proj:       Project(nil, time.Time{}, fallback),
	}
}

// Apply recomputes projections for a new aggregate and re-arms the
// auto-scroll.
func (m *Model) Apply(agg *Aggregate, now time.Time) {
	proj := Project(agg, now, m.fallback)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.agg = agg
	m.proj = proj
	m.autoScroll = true
}

// SetMode switches the display mode. An actual switch arms the
// auto-scroll once.
func (m *Model) SetMode(mode DisplayMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.autoScroll = true
}

// Mode returns the display mode.
func (m *Model) Mode() DisplayMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// ScrollIndex returns the index to scroll to. The first read after a mode
// switch or new data returns the first current record (0 if none); later
// reads return 0 until the next switch.
func (m *Model) ScrollIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.autoScroll {
		return 0
	}
	m.autoScroll = false
	return CurrentIndex(m.proj.Records(m.mode))
}

// Records returns the list for the current mode.
func (m *Model) Records() []ForecastRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proj.Records(m.mode)
}

// Record returns the record at i in the current mode.
func (m *Model) Record(i int) (ForecastRecord, bool) {
	records := m.Records()
	if i < 0 || i >= len(records) {
		return ForecastRecord{}, false
	}
	return records[i], true
}

// ItemCount is the number of forecast cells to lay out. Without data the
// view shows placeholder cells.
func (m *Model) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.proj.Records(m.mode))
	if n > 0 {
		return n
	}
	if m.mode == ModeHourly {
		return placeholderHourlyItems
	}
	return placeholderDailyItems
}

// Alerts returns the alerts of the applied aggregate.
func (m *Model) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.agg == nil {
		return []Alert{}
	}
	return m.agg.Alerts
}

// Aggregate returns the applied aggregate, or nil.
func (m *Model) Aggregate() *Aggregate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agg
}

// Zone returns the zone the model projects in.
func (m *Model) Zone() *time.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agg.Zone(m.fallback)
}
