package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"channel-radio/internal/models"
	"channel-radio/internal/store"
)

var showWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "channel_show_writes_total",
		Help: "Show create/update/delete operations by outcome",
	},
	[]string{"op", "status"},
)

// RegisterMetrics registers the handler counters; call once from main.
func RegisterMetrics() {
	prometheus.MustRegister(showWrites)
}

// ShowHandler implements the calendar's write contract: create (drag-create
// or form), partial update (resize or modal save) and delete.
type ShowHandler struct {
	shows *store.ShowStore
}

func NewShowHandler(shows *store.ShowStore) *ShowHandler {
	return &ShowHandler{shows: shows}
}

// slotInput is a lineup slot as the form sends it. UIDs are kept when the
// client has them so edits track identity across retiles.
type slotInput struct {
	UID       string    `json:"uid"`
	DJName    string    `json:"dj_name"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (in slotInput) toModel() models.DJSlot {
	uid := in.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	return models.DJSlot{
		UID:       uid,
		DJName:    in.DJName,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
}

// CreateShow handles both a committed drag-create (name defaulted, no
// lineup yet) and a full form submission.
func (h *ShowHandler) CreateShow(c *gin.Context) {
	var input struct {
		Name      string      `json:"name"`
		Kind      string      `json:"kind"`
		DJName    string      `json:"dj_name"`
		StartTime time.Time   `json:"start_time" binding:"required"`
		EndTime   time.Time   `json:"end_time" binding:"required"`
		Slots     []slotInput `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	show := models.Show{
		Name:      input.Name,
		Kind:      models.BroadcastKind(input.Kind),
		DJName:    input.DJName,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if show.Name == "" {
		show.Name = "New Show"
	}
	for _, s := range input.Slots {
		show.Slots = append(show.Slots, s.toModel())
	}

	if err := h.shows.Create(c.Request.Context(), &show); err != nil {
		if errors.Is(err, store.ErrInvalidInterval) {
			showWrites.WithLabelValues("create", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		showWrites.WithLabelValues("create", "failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create show"})
		return
	}

	showWrites.WithLabelValues("create", "success").Inc()
	c.JSON(http.StatusCreated, show)
}

// UpdateShow applies a partial update: a resize sends only start_time or
// end_time, a modal save sends the whole form. Lineups are retiled before
// anything is persisted.
func (h *ShowHandler) UpdateShow(c *gin.Context) {
	id, err := showID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid show ID"})
		return
	}

	var input struct {
		Name      *string      `json:"name"`
		Kind      *string      `json:"kind"`
		Status    *string      `json:"status"`
		DJName    *string      `json:"dj_name"`
		StartTime *time.Time   `json:"start_time"`
		EndTime   *time.Time   `json:"end_time"`
		Slots     *[]slotInput `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.ShowPatch{
		Name:      input.Name,
		DJName:    input.DJName,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if input.Kind != nil {
		kind := models.BroadcastKind(*input.Kind)
		patch.Kind = &kind
	}
	if input.Status != nil {
		status := models.ShowStatus(*input.Status)
		patch.Status = &status
	}
	if input.Slots != nil {
		slots := make([]models.DJSlot, 0, len(*input.Slots))
		for _, s := range *input.Slots {
			slots = append(slots, s.toModel())
		}
		patch.Slots = &slots
	}

	show, err := h.shows.Update(c.Request.Context(), id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		showWrites.WithLabelValues("update", "missing").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Show not found"})
	case errors.Is(err, store.ErrInvalidInterval):
		showWrites.WithLabelValues("update", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		showWrites.WithLabelValues("update", "failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update show"})
	default:
		showWrites.WithLabelValues("update", "success").Inc()
		c.JSON(http.StatusOK, show)
	}
}

// DeleteShow removes a show from the calendar.
func (h *ShowHandler) DeleteShow(c *gin.Context) {
	id, err := showID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid show ID"})
		return
	}

	err = h.shows.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Show not found"})
	case err != nil:
		showWrites.WithLabelValues("delete", "failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete show"})
	default:
		showWrites.WithLabelValues("delete", "success").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Show removed from schedule", "id": id})
	}
}

// GetShow fetches one show with its lineup.
func (h *ShowHandler) GetShow(c *gin.Context) {
	id, err := showID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid show ID"})
		return
	}

	show, err := h.shows.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Show not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, show)
}

func showID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
