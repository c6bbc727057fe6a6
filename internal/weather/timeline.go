package weather

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// DefaultWindow is how many hourly entries a widget timeline covers.
	DefaultWindow = 3
	// MidnightWindow is used when DefaultWindow would cross midnight.
	MidnightWindow = 1

	placeholderText = "---"
)

// RefreshPolicy tells the widget scheduler when to ask for a new timeline.
type RefreshPolicy string

// RefreshAtEnd asks for a new timeline once the last entry's time passed.
const RefreshAtEnd RefreshPolicy = "atEnd"

// WindowSize returns the number of hourly entries to precompute at ref.
// Hourly data is only matched within today, so a window that would cross
// midnight in loc collapses to a single entry.
func WindowSize(ref time.Time, loc *time.Location) int {
	if HourOf(ref, loc)+DefaultWindow-1 >= 24 {
		return MidnightWindow
	}
	return DefaultWindow
}

// TimelineEntry is one scheduled widget display record.
type TimelineEntry struct {
	Date  time.Time      `json:"date"`
	Place *Place         `json:"place,omitempty"`
	Hour  *ForecastPoint `json:"hour,omitempty"`
}

// Locality is the place name, or a placeholder.
func (e TimelineEntry) Locality() string {
	if e.Place == nil || e.Place.Name == "" {
		return placeholderText
	}
	return e.Place.Name
}

// Symbol is the widget symbol for the entry's hour.
func (e TimelineEntry) Symbol() string {
	if e.Hour == nil {
		return widgetFallbackSymbol
	}
	return WidgetSymbol(e.Hour.Condition)
}

// ApparentLabel is the apparent temperature, or a placeholder.
func (e TimelineEntry) ApparentLabel() string {
	if e.Hour == nil {
		return placeholderText
	}
	return fmt.Sprintf("%.1f°C", e.Hour.ApparentTemperature)
}

// ConditionLabel is the condition name, or a placeholder.
func (e TimelineEntry) ConditionLabel() string {
	if e.Hour == nil {
		return placeholderText
	}
	return string(e.Hour.Condition)
}

// URL is the deep link that opens the app on the entry's place. Empty when
// the entry has no place.
func (e TimelineEntry) URL() string {
	if e.Place == nil {
		return ""
	}
	return fmt.Sprintf("skyvision://widget/%g/%g", e.Place.Coordinate.Latitude, e.Place.Coordinate.Longitude)
}

// Timeline is an ordered, immutable run of entries plus its refresh policy.
type Timeline struct {
	Entries []TimelineEntry `json:"entries"`
	Policy  RefreshPolicy   `json:"policy"`
}

// Expired reports whether the consumer should request a new timeline.
func (t Timeline) Expired(now time.Time) bool {
	if len(t.Entries) == 0 {
		return true
	}
	return !now.Before(t.Entries[len(t.Entries)-1].Date)
}

// BuildTimeline lays count hourly slots from now and attaches the point
// matching each slot's hour-of-day in loc. Slots without a point are
// skipped, so the timeline may be shorter than count.
func BuildTimeline(now time.Time, loc *time.Location, place *Place, points []ForecastPoint, count int) Timeline {
	byHour := make(map[int]ForecastPoint, len(points))
	for _, p := range points {
		if _, ok := byHour[HourOf(p.Date, loc)]; !ok {
			byHour[HourOf(p.Date, loc)] = p
		}
	}

	entries := make([]TimelineEntry, 0, count)
	for i := 0; i < count; i++ {
		date := AddHours(now, i, loc)
		h := HourOf(date, loc)
		p, ok := byHour[h]
		if !ok {
			continue
		}
		// A repeated wall-clock hour (DST fall back) gets one entry.
		delete(byHour, h)
		hour := p
		entries = append(entries, TimelineEntry{Date: date, Place: place, Hour: &hour})
	}
	return Timeline{Entries: entries, Policy: RefreshAtEnd}
}

// WidgetConfig identifies what a widget shows. Place may be nil, in which
// case it is resolved from Coordinate.
type WidgetConfig struct {
	Coordinate Coordinate
	Place      *Place
}

// Widget builds lock-screen widget timelines.
type Widget struct {
	geo         GeoResolver
	source      *Source
	now         Clock
	defaultZone *time.Location
}

// NewWidget creates a Widget. defaultZone is used when no place zone is
// known; nil means the process local zone.
func NewWidget(geo GeoResolver, source *Source, defaultZone *time.Location) *Widget {
	return &Widget{
		geo:         geo,
		source:      source,
		now:         time.Now,
		defaultZone: zoneOr(defaultZone),
	}
}

// WithClock replaces the widget clock.
func (w *Widget) WithClock(now Clock) *Widget {
	if now != nil {
		w.now = now
	}
	return w
}

func (w *Widget) place(ctx context.Context, cfg WidgetConfig) *Place {
	if cfg.Place != nil {
		return cfg.Place
	}
	if w.geo == nil {
		return nil
	}
	place, err := w.geo.Resolve(ctx, cfg.Coordinate)
	if err != nil {
		log.Printf("widget: geocode failed for %s: %v", cfg.Coordinate.Key(), err)
		return nil
	}
	return place
}

func (w *Widget) zone(place *Place) *time.Location {
	if loc := place.Zone(); loc != nil {
		return loc
	}
	return w.defaultZone
}

// Timeline builds the entries for the coming hours. Fetch failures are
// logged and produce an empty timeline.
func (w *Widget) Timeline(ctx context.Context, cfg WidgetConfig) Timeline {
	now := w.now()
	place := w.place(ctx, cfg)
	loc := w.zone(place)

	count := WindowSize(now, loc)
	points, err := w.source.NextHours(ctx, cfg.Coordinate, loc, now, count)
	if err != nil {
		log.Printf("widget: next hours fetch failed for %s: %v", cfg.Coordinate.Key(), err)
		return Timeline{Entries: []TimelineEntry{}, Policy: RefreshAtEnd}
	}
	log.Printf("DEBUG: widget received %d of %d hours for %s", len(points), count, cfg.Coordinate.Key())

	return BuildTimeline(now, loc, place, points, count)
}

// Snapshot builds a single entry for the current hour.
func (w *Widget) Snapshot(ctx context.Context, cfg WidgetConfig) TimelineEntry {
	now := w.now()
	place := w.place(ctx, cfg)
	entry := TimelineEntry{Date: now, Place: place}

	hour, err := w.source.CurrentHour(ctx, cfg.Coordinate, w.zone(place), now)
	if err != nil {
		log.Printf("widget: current hour fetch failed for %s: %v", cfg.Coordinate.Key(), err)
		return entry
	}
	entry.Hour = hour
	return entry
}

// Placeholder is the entry shown before any data is available.
func Placeholder(now time.Time) TimelineEntry {
	return TimelineEntry{Date: now}
}
