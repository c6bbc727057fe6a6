package weather

import (
	"context"
	"fmt"
	"time"
)

// Source is the WeatherSource: read-only views over a forecast provider and
// an optional alert provider. It never retries; callers decide.
type Source struct {
	forecasts ForecastProvider
	alerts    AlertProvider
	now       Clock
}

// NewSource creates a Source. alerts may be nil, in which case no alerts
// are ever reported.
func NewSource(forecasts ForecastProvider, alerts AlertProvider) *Source {
	return &Source{
		forecasts: forecasts,
		alerts:    alerts,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to decide what "today" is.
func (s *Source) WithClock(now Clock) *Source {
	if now != nil {
		s.now = now
	}
	return s
}

// Forecast fetches current, hourly and daily data for c.
func (s *Source) Forecast(ctx context.Context, c Coordinate) (*Forecast, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c.Key())
	}
	if s.forecasts == nil {
		return nil, fmt.Errorf("%w: no forecast provider configured", ErrProviderFailure)
	}
	return s.forecasts.FetchForecast(ctx, c)
}

// Alerts fetches active alerts for c.
func (s *Source) Alerts(ctx context.Context, c Coordinate) ([]Alert, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c.Key())
	}
	if s.alerts == nil {
		return []Alert{}, nil
	}
	alerts, err := s.alerts.FetchAlerts(ctx, c)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts, nil
}

// CurrentHour returns the hourly point for ref's hour, dated today in loc.
// A nil point with a nil error means no hour matched.
func (s *Source) CurrentHour(ctx context.Context, c Coordinate, loc *time.Location, ref time.Time) (*ForecastPoint, error) {
	fc, err := s.Forecast(ctx, c)
	if err != nil {
		return nil, err
	}
	return CurrentHourOf(fc.Hourly, loc, ref, s.now()), nil
}

// NextHours returns up to count hourly points for from's hour and the
// following ones, dated today in loc.
func (s *Source) NextHours(ctx context.Context, c Coordinate, loc *time.Location, from time.Time, count int) ([]ForecastPoint, error) {
	fc, err := s.Forecast(ctx, c)
	if err != nil {
		return nil, err
	}
	return MatchNextHours(fc.Hourly, loc, from, count, s.now()), nil
}

// DailyAndAlerts returns the daily forecast and active alerts for c.
func (s *Source) DailyAndAlerts(ctx context.Context, c Coordinate) ([]ForecastPoint, []Alert, error) {
	fc, err := s.Forecast(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	alerts, err := s.Alerts(ctx, c)
	if err != nil {
		return fc.Daily, nil, err
	}
	return fc.Daily, alerts, nil
}

// CurrentHourOf picks the first hourly point dated today in loc whose hour
// of day matches ref's.
func CurrentHourOf(hourly []ForecastPoint, loc *time.Location, ref, today time.Time) *ForecastPoint {
	hour := HourOf(ref, loc)
	for _, p := range hourly {
		if p.Granularity != Hourly {
			continue
		}
		if SameDay(p.Date, today, loc) && HourOf(p.Date, loc) == hour {
			match := p
			match.IsCurrent = true
			return &match
		}
	}
	return nil
}

// MatchNextHours maps each offset k in [0,count) to the first hourly point
// dated today in loc whose hour equals hour(from + k h). Offsets without a
// point are dropped, so the result is ordered by offset and may be shorter
// than count.
func MatchNextHours(hourly []ForecastPoint, loc *time.Location, from time.Time, count int, today time.Time) []ForecastPoint {
	if count <= 0 {
		return []ForecastPoint{}
	}

	byHour := make(map[int]ForecastPoint, len(hourly))
	for _, p := range hourly {
		if p.Granularity != Hourly || !SameDay(p.Date, today, loc) {
			continue
		}
		h := HourOf(p.Date, loc)
		if _, taken := byHour[h]; taken {
			continue
		}
		byHour[h] = p
	}

	currentHour := HourOf(from, loc)
	out := make([]ForecastPoint, 0, count)
	used := make(map[int]struct{}, count)
	for k := 0; k < count; k++ {
		h := HourOf(AddHours(from, k, loc), loc)
		if _, dup := used[h]; dup {
			continue
		}
		p, ok := byHour[h]
		if !ok {
			continue
		}
		used[h] = struct{}{}
		p.IsCurrent = h == currentHour
		out = append(out, p)
	}
	return out
}
