package http

import (
	"net/http"
	"strings"

	"github.com/fieldcrew/coating-scheduler/internal/auth"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/gin-gonic/gin"
)

// ListVisibleTasks returns the calling worker's ready tasks.
func (h *Handler) ListVisibleTasks(c *gin.Context) {
	workerID := auth.WorkerID(c)
	if workerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "worker not identified"})
		return
	}

	projectID, ok := projectParam(c)
	if !ok {
		return
	}

	tasks, err := h.readiness.VisibleTasks(c.Request.Context(), projectID, workerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": tasks})
}

// UpdateStatus moves one of the calling worker's tasks forward.
func (h *Handler) UpdateStatus(c *gin.Context) {
	workerID := auth.WorkerID(c)
	if workerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "worker not identified"})
		return
	}
	h.updateStatus(c, workerID)
}

func (h *Handler) updateStatus(c *gin.Context, workerID string) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	taskID, ok := taskParam(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	next := domain.TaskStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))

	change, err := h.tasks.UpdateStatus(c.Request.Context(), projectID, taskID, workerID, next)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "change": change})
}
