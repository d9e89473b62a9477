package schedule

import "time"

// Week is the visible 7-day window of the station calendar.
// The anchor is the local midnight starting the week (Monday); the seven
// days are derived from it. Pure view state, never persisted.
type Week struct {
	Start time.Time
	Days  [7]time.Time
	loc   *time.Location
}

// StartOfWeek normalizes t to the local midnight of its Monday.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// NewWeek builds the week window containing the anchor instant.
func NewWeek(anchor time.Time, loc *time.Location) Week {
	w := Week{Start: StartOfWeek(anchor, loc), loc: loc}
	for i := range w.Days {
		w.Days[i] = w.Start.AddDate(0, 0, i)
	}
	return w
}

// Next returns the following week's window.
func (w Week) Next() Week {
	return NewWeek(w.Start.AddDate(0, 0, 7), w.loc)
}

// Prev returns the preceding week's window.
func (w Week) Prev() Week {
	return NewWeek(w.Start.AddDate(0, 0, -7), w.loc)
}

// Location returns the timezone the week is rendered in.
func (w Week) Location() *time.Location {
	return w.loc
}

// DayIndex returns which visible day (0..6) the instant's calendar date
// falls on, or -1 if it is outside the window.
func (w Week) DayIndex(t time.Time) int {
	y, m, d := t.In(w.loc).Date()
	for i, day := range w.Days {
		dy, dm, dd := day.Date()
		if y == dy && m == dm && d == dd {
			return i
		}
	}
	return -1
}

// DayAt returns the instant at a fractional hour on the given visible day.
// hour 24 rolls into the next day's midnight.
func (w Week) DayAt(day int, hour float64) time.Time {
	return w.Days[day].Add(time.Duration(hour * float64(time.Hour)))
}
