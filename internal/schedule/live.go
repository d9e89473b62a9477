package schedule

import (
	"time"

	"channel-radio/internal/models"
)

// OnAir returns the show whose [start, end) window contains the clock's
// now. One-off overlaps are resolved in favor of the latest start (a guest
// slot carved into a longer residency wins). Paused and completed shows are
// never on air.
func OnAir(shows []models.Show, clock Clock) *models.Show {
	now := clock.Now()

	var best *models.Show
	for i := range shows {
		s := &shows[i]
		if s.Status == models.StatusPaused || s.Status == models.StatusCompleted {
			continue
		}
		if now.Before(s.StartTime) || !now.Before(s.EndTime) {
			continue
		}
		if best == nil || s.StartTime.After(best.StartTime) {
			best = s
		}
	}
	return best
}

// NextUp returns the earliest show starting after now, or nil when the
// calendar ahead is empty.
func NextUp(shows []models.Show, clock Clock) *models.Show {
	now := clock.Now()

	var best *models.Show
	for i := range shows {
		s := &shows[i]
		if s.Status == models.StatusCompleted || !s.StartTime.After(now) {
			continue
		}
		if best == nil || s.StartTime.Before(best.StartTime) {
			best = s
		}
	}
	return best
}

// LineupNow returns which DJ slot of a venue show is playing at the given
// instant, nil outside the show or for shows without a lineup.
func LineupNow(show *models.Show, at time.Time) *models.DJSlot {
	for i := range show.Slots {
		s := &show.Slots[i]
		if !at.Before(s.StartTime) && at.Before(s.EndTime) {
			return s
		}
	}
	return nil
}
