package aggregation

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// DayKey buckets t into a calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}

// MonthKey buckets t into a calendar month in loc
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(monthLayout)
}

// DaysBetween lists every day key from start to end inclusive, used to fill
// gaps so charts get a point for days without records.
func DaysBetween(start, end time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	s := startOfDay(start.In(loc))
	e := startOfDay(end.In(loc))
	if e.Before(s) {
		return nil
	}
	days := make([]string, 0, int(e.Sub(s).Hours()/24)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}
	return days
}

// EndOfDay returns the last instant of t's calendar day in t's location.
// Days around a DST change are 23 or 25 hours long.
func EndOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
