package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"channel-radio/internal/archive"
	"channel-radio/internal/store"
)

// ArchiveHandler publishes completed-show recordings on demand; the
// archiver worker does the same thing automatically for conventionally
// named drop files.
type ArchiveHandler struct {
	publisher *archive.Publisher
}

func NewArchiveHandler(pub *archive.Publisher) *ArchiveHandler {
	return &ArchiveHandler{publisher: pub}
}

// PublishRecording archives the named drop file for a show.
func (h *ArchiveHandler) PublishRecording(c *gin.Context) {
	id, err := showID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid show ID"})
		return
	}

	var input struct {
		DropKey string `json:"drop_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	show, err := h.publisher.PublishShow(c.Request.Context(), id, input.DropKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Show not found"})
	case errors.Is(err, archive.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Show has not completed yet"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, show)
	}
}
