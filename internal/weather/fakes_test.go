package weather

import (
	"context"
	"sync"
	"time"
)

var testZone = time.FixedZone("UTC+2", 2*60*60)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func hourlyPoints(day time.Time, loc *time.Location, hours ...int) []ForecastPoint {
	y, m, d := day.In(loc).Date()
	out := make([]ForecastPoint, 0, len(hours))
	for _, h := range hours {
		out = append(out, ForecastPoint{
			Date:                time.Date(y, m, d, h, 0, 0, 0, loc),
			Granularity:         Hourly,
			Condition:           ConditionClear,
			PrecipitationChance: 0.1,
			ApparentTemperature: float64(h),
		})
	}
	return out
}

func dailyPoints(first time.Time, loc *time.Location, days int) []ForecastPoint {
	y, m, d := first.In(loc).Date()
	out := make([]ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		date := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		out = append(out, ForecastPoint{
			Date:        date,
			Granularity: Daily,
			Condition:   ConditionRain,
			High:        20 + float64(i),
			Low:         10 + float64(i),
		})
	}
	return out
}

type fakeGeo struct {
	place *Place
	err   error
	delay time.Duration
	calls int
	mu    sync.Mutex
}

func (f *fakeGeo) Resolve(ctx context.Context, c Coordinate) (*Place, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	p := *f.place
	p.Coordinate = c
	return &p, nil
}

type fakeForecasts struct {
	forecast *Forecast
	err      error
	delay    time.Duration

	// block, when set, holds fetches for the given coordinate until
	// release is closed.
	block   *Coordinate
	release chan struct{}
}

func (f *fakeForecasts) Name() string { return "fake" }

func (f *fakeForecasts) FetchForecast(ctx context.Context, c Coordinate) (*Forecast, error) {
	if f.block != nil && *f.block == c {
		<-f.release
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	fc := *f.forecast
	fc.Coordinate = c
	return &fc, nil
}

type fakeAlerts struct {
	alerts []Alert
	err    error
}

func (f *fakeAlerts) Name() string { return "fake" }

func (f *fakeAlerts) FetchAlerts(ctx context.Context, c Coordinate) ([]Alert, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.alerts, nil
}
