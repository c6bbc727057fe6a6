package weather

import (
	"time"
)

// FieldErrors records which parts of a fetch cycle failed.
type FieldErrors struct {
	Place    error `json:"-"`
	Forecast error `json:"-"`
	Alerts   error `json:"-"`
}

// Partial reports whether any field failed.
func (e FieldErrors) Partial() bool {
	return e.Place != nil || e.Forecast != nil || e.Alerts != nil
}

// Messages returns the failed fields and their error strings.
func (e FieldErrors) Messages() map[string]string {
	out := make(map[string]string)
	if e.Place != nil {
		out["place"] = e.Place.Error()
	}
	if e.Forecast != nil {
		out["forecast"] = e.Forecast.Error()
	}
	if e.Alerts != nil {
		out["alerts"] = e.Alerts.Error()
	}
	return out
}

// Aggregate is the merged result of one fetch cycle. It is replaced, never
// mutated, on every cycle.
type Aggregate struct {
	CycleID    string           `json:"cycleId"`
	Coordinate Coordinate       `json:"coordinate"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	Place      *Place           `json:"place,omitempty"`
	Current    *WeatherSnapshot `json:"current,omitempty"`
	Hourly     []ForecastPoint  `json:"hourly"`
	Daily      []ForecastPoint  `json:"daily"`
	Alerts     []Alert          `json:"alerts"`

	// ForecastZoneID is the zone the forecast provider reported. It fills
	// in a resolved place that came back without a zone.
	ForecastZoneID string `json:"forecastTimezone,omitempty"`

	Errors FieldErrors `json:"-"`
}

// Zone returns the timezone display logic should use: the place's zone
// when a place was resolved, else fallback (device local when nil).
func (a *Aggregate) Zone(fallback *time.Location) *time.Location {
	if a == nil {
		return zoneOr(fallback)
	}
	if loc := a.Place.Zone(); loc != nil {
		return loc
	}
	return zoneOr(fallback)
}

// TodayDaily returns the daily point dated today in the aggregate's zone.
func (a *Aggregate) TodayDaily(now time.Time, fallback *time.Location) *ForecastPoint {
	if a == nil {
		return nil
	}
	loc := a.Zone(fallback)
	for _, p := range a.Daily {
		if SameDay(p.Date, now, loc) {
			match := p
			return &match
		}
	}
	return nil
}

// withPrior fills fields that failed in this cycle from prior, but only
// when prior was fetched for the same coordinate. Otherwise failed fields
// stay empty.
func (a *Aggregate) withPrior(prior *Aggregate) {
	samePlace := prior != nil && prior.Coordinate == a.Coordinate

	if a.Errors.Place != nil && samePlace {
		a.Place = prior.Place
	}
	if a.Errors.Forecast != nil {
		if samePlace {
			a.Current = prior.Current
			a.Hourly = prior.Hourly
			a.Daily = prior.Daily
			a.ForecastZoneID = prior.ForecastZoneID
		}
	}
	if a.Errors.Alerts != nil && samePlace {
		a.Alerts = prior.Alerts
	}

	if a.Hourly == nil {
		a.Hourly = []ForecastPoint{}
	}
	if a.Daily == nil {
		a.Daily = []ForecastPoint{}
	}
	if a.Alerts == nil {
		a.Alerts = []Alert{}
	}
}
