package schedule

import (
	"time"

	"channel-radio/internal/models"
)

// Segment is the portion of a show's timeline falling on one visible
// calendar day. Derived fresh on every render, never persisted.
type Segment struct {
	ShowID    uint    `json:"show_id"`
	Day       int     `json:"day"`        // index into the week's 7 days
	StartHour float64 `json:"start_hour"` // fractional: hour + minute/60
	EndHour   float64 `json:"end_hour"`
	First     bool    `json:"first"` // carries the show's real start boundary
	Last      bool    `json:"last"`  // carries the show's real end boundary
}

// HourOf returns the fractional hour-of-day of an instant.
func HourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// Segments splits a show across the visible week, one segment per calendar
// day it touches:
//   - same-day show: a single [startHour, endHour) segment
//   - overnight / multi-day: startHour→24 on the first day, full 0→24 for
//     days strictly in between, 0→endHour on the final day
//
// A show ending exactly at midnight gets no zero-height trailing segment.
// Days outside the window are dropped; a show entirely outside the window
// yields nil.
func Segments(show *models.Show, week Week) []Segment {
	loc := week.Location()
	start := show.StartTime.In(loc)
	end := show.EndTime.In(loc)

	if !show.Overnight(loc) {
		day := week.DayIndex(start)
		if day < 0 {
			return nil
		}
		return []Segment{{
			ShowID:    show.ID,
			Day:       day,
			StartHour: HourOf(start),
			EndHour:   HourOf(end),
			First:     true,
			Last:      true,
		}}
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	startDate := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	endDate := time.Date(ey, em, ed, 0, 0, 0, 0, loc)
	endHour := HourOf(end)

	var segs []Segment
	for i, day := range week.Days {
		switch {
		case day.Equal(startDate):
			segs = append(segs, Segment{
				ShowID:    show.ID,
				Day:       i,
				StartHour: HourOf(start),
				EndHour:   24,
				First:     true,
			})
		case day.After(startDate) && day.Before(endDate):
			segs = append(segs, Segment{
				ShowID:  show.ID,
				Day:     i,
				EndHour: 24,
			})
		case day.Equal(endDate) && endHour > 0:
			segs = append(segs, Segment{
				ShowID:  show.ID,
				Day:     i,
				EndHour: endHour,
				Last:    true,
			})
		}
	}
	return segs
}
