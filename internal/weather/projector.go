package weather

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxDailyRecords bounds the daily projection.
	MaxDailyRecords = 10
	// MaxHourlyRecords bounds the hourly projection.
	MaxHourlyRecords = 24
)

// DisplayMode selects which projection the main view shows.
type DisplayMode int

const (
	ModeDaily DisplayMode = iota
	ModeHourly
)

func (m DisplayMode) String() string {
	if m == ModeHourly {
		return "hourly"
	}
	return "daily"
}

// ParseDisplayMode parses "daily" or "hourly".
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return ModeDaily, nil
	case "hourly":
		return ModeHourly, nil
	default:
		return ModeDaily, fmt.Errorf("unknown display mode %q", s)
	}
}

// ForecastRecord is a display-ready forecast row.
type ForecastRecord struct {
	Date                time.Time `json:"date"`
	Label               string    `json:"label"`
	Icon                string    `json:"icon"`
	PrecipitationChance float64   `json:"precipitationChance"`
	High                *float64  `json:"highC,omitempty"`
	Low                 *float64  `json:"lowC,omitempty"`
	ApparentTemperature *float64  `json:"apparentTemperatureC,omitempty"`
	IsCurrent           bool      `json:"isCurrent"`
}

// Projection holds both main-view lists.
type Projection struct {
	Daily  []ForecastRecord `json:"daily"`
	Hourly []ForecastRecord `json:"hourly"`
}

// Records returns the list for mode.
func (p Projection) Records(mode DisplayMode) []ForecastRecord {
	if mode == ModeHourly {
		return p.Hourly
	}
	return p.Daily
}

// ProjectDaily maps daily points to records, one per local date, flagging
// the one dated today in loc.
func ProjectDaily(points []ForecastPoint, loc *time.Location, now time.Time) []ForecastRecord {
	loc = zoneOr(loc)
	out := make([]ForecastRecord, 0, len(points))
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p.Granularity != Daily {
			continue
		}
		key := p.Date.In(loc).Format("2006-01-02")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		high, low := p.High, p.Low
		out = append(out, ForecastRecord{
			Date:                p.Date,
			Label:               WeekDay(p.Date, loc),
			Icon:                ConditionIcon(p.Condition, p.SymbolName),
			PrecipitationChance: p.PrecipitationChance,
			High:                &high,
			Low:                 &low,
			IsCurrent:           SameDay(p.Date, now, loc),
		})
		if len(out) == MaxDailyRecords {
			break
		}
	}
	return out
}

// ProjectHourly maps today's hourly points to records, one per local hour,
// flagging the one whose hour equals now's hour in loc.
func ProjectHourly(points []ForecastPoint, loc *time.Location, now time.Time) []ForecastRecord {
	loc = zoneOr(loc)
	currentHour := HourOf(now, loc)
	out := make([]ForecastRecord, 0, MaxHourlyRecords)
	seen := make(map[int]struct{}, MaxHourlyRecords)
	for _, p := range points {
		if p.Granularity != Hourly || !SameDay(p.Date, now, loc) {
			continue
		}
		h := HourOf(p.Date, loc)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		apparent := p.ApparentTemperature
		out = append(out, ForecastRecord{
			Date:                p.Date,
			Label:               HourLabel(p.Date, loc),
			Icon:                ConditionIcon(p.Condition, p.SymbolName),
			PrecipitationChance: p.PrecipitationChance,
			ApparentTemperature: &apparent,
			IsCurrent:           h == currentHour,
		})
		if len(out) == MaxHourlyRecords {
			break
		}
	}
	return out
}

// Project builds both projections for an aggregate. A nil aggregate yields
// empty lists.
func Project(agg *Aggregate, now time.Time, fallback *time.Location) Projection {
	if agg == nil {
		return Projection{Daily: []ForecastRecord{}, Hourly: []ForecastRecord{}}
	}
	loc := agg.Zone(fallback)
	return Projection{
		Daily:  ProjectDaily(agg.Daily, loc, now),
		Hourly: ProjectHourly(agg.Hourly, loc, now),
	}
}

// CurrentIndex is the index of the first current record, or 0.
func CurrentIndex(records []ForecastRecord) int {
	for i, r := range records {
		if r.IsCurrent {
			return i
		}
	}
	return 0
}
