package weather

import "time"

// Clock returns the current instant. Tests replace it.
type Clock func() time.Time

func zoneOr(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// HourOf returns the hour of day of t in loc.
func HourOf(t time.Time, loc *time.Location) int {
	return t.In(zoneOr(loc)).Hour()
}

// SameDay reports whether a and b share the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	loc = zoneOr(loc)
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// SameHour reports whether a and b share date and hour of day in loc.
func SameHour(a, b time.Time, loc *time.Location) bool {
	return SameDay(a, b, loc) && HourOf(a, loc) == HourOf(b, loc)
}

// AddHours steps t by n elapsed hours and expresses the result in loc.
// Elapsed-time stepping keeps DST transitions from skipping or repeating
// a slot.
func AddHours(t time.Time, n int, loc *time.Location) time.Time {
	return t.Add(time.Duration(n) * time.Hour).In(zoneOr(loc))
}

var weekDays = [...]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// WeekDay is the short upper-case weekday name of t in loc.
func WeekDay(t time.Time, loc *time.Location) string {
	return weekDays[t.In(zoneOr(loc)).Weekday()]
}

// HourLabel formats t as "HH:00" in loc. Display only.
func HourLabel(t time.Time, loc *time.Location) string {
	return t.In(zoneOr(loc)).Format("15:00")
}

// ClockLabel formats t as "HH:mm" in loc. Display only.
func ClockLabel(t time.Time, loc *time.Location) string {
	return t.In(zoneOr(loc)).Format("15:04")
}
