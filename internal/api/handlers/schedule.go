package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"channel-radio/internal/schedule"
	"channel-radio/internal/store"
)

// ScheduleHandler serves the weekly calendar: shows of the visible week
// with their per-day display segments, and the on-air status.
type ScheduleHandler struct {
	shows *store.ShowStore
	clock schedule.Clock
	loc   *time.Location
}

func NewScheduleHandler(shows *store.ShowStore, clock schedule.Clock, loc *time.Location) *ScheduleHandler {
	return &ScheduleHandler{shows: shows, clock: clock, loc: loc}
}

// GetWeek returns the 7-day window containing ?week= (RFC3339, defaulting
// to now), every show intersecting it, and the derived segments grouped by
// visible day.
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	anchor := h.clock.Now()
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week must be RFC3339"})
			return
		}
		anchor = parsed
	}

	week := schedule.NewWeek(anchor, h.loc)
	weekEnd := week.Start.AddDate(0, 0, 7)

	shows, err := h.shows.InWindow(c.Request.Context(), week.Start, weekEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	days := make([][]schedule.Segment, 7)
	for i := range shows {
		for _, seg := range schedule.Segments(&shows[i], week) {
			days[seg.Day] = append(days[seg.Day], seg)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start": week.Start,
		"days":       week.Days,
		"shows":      shows,
		"segments":   days,
	})
}

// GetOnAir reports what is live right now and what comes next.
func (h *ScheduleHandler) GetOnAir(c *gin.Context) {
	shows, err := h.shows.Upcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"on_air": nil, "next_up": nil}
	if current := schedule.OnAir(shows, h.clock); current != nil {
		resp["on_air"] = current
		if slot := schedule.LineupNow(current, h.clock.Now()); slot != nil && !slot.Filler {
			resp["current_dj"] = slot.DJName
		}
	}
	if next := schedule.NextUp(shows, h.clock); next != nil {
		resp["next_up"] = next
	}

	c.JSON(http.StatusOK, resp)
}
