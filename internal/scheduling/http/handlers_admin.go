package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// GetScope classifies a project and lists the steps its template holds.
func (h *Handler) GetScope(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	preview, err := h.scheduler.ScopePreview(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "scope": preview})
}

// PreviewSchedule computes a schedule without storing it.
func (h *Handler) PreviewSchedule(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	opts := service.GenerateOptions{Scope: domain.ParseScope(c.Query("scope"))}
	plan, err := h.scheduler.Preview(c.Request.Context(), projectID, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "plan": plan})
}

// GenerateSchedule generates and stores a project's schedule. A skip is not
// an error and answers 200; a created schedule answers 201.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	out := h.scheduler.Generate(c.Request.Context(), projectID, service.GenerateOptions{Scope: domain.ParseScope(string(req.Scope))})
	switch out.Kind {
	case domain.OutcomeCreated:
		c.JSON(http.StatusCreated, gin.H{"ok": true, "outcome": out})
	case domain.OutcomeSkipped:
		c.JSON(http.StatusOK, gin.H{"ok": true, "outcome": out})
	default:
		status := statusFor(out.Err)
		if status == http.StatusInternalServerError {
			writeError(c, out.Err)
			return
		}
		c.JSON(status, gin.H{"ok": false, "error": out.Error, "outcome": out})
	}
}

// GenerateBatch generates every listed project, or every unscheduled one
// when the list is empty.
func (h *Handler) GenerateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !bodyUUIDs(c, "project_ids", req.ProjectIDs) {
		return
	}

	result, err := h.scheduler.GenerateBatch(c.Request.Context(), req.ProjectIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": result})
}

// ListRuns returns the most recent batch runs, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.scheduler.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runs": runs})
}

func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.scheduler.GetRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": run})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "metrics": service.GetMetrics()})
}

func (h *Handler) ListTasks(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": tasks})
}

func (h *Handler) GetTaskStats(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	stats, err := h.tasks.Stats(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

func (h *Handler) PublishTasks(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	n, err := h.tasks.Publish(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "published": n})
}

func (h *Handler) ReplaceAssignments(c *gin.Context) {
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	taskID, ok := taskParam(c)
	if !ok {
		return
	}
	var req AssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !bodyUUIDs(c, "worker_ids", req.WorkerIDs) {
		return
	}

	ids, err := h.tasks.ReplaceAssignments(c.Request.Context(), projectID, taskID, req.WorkerIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "worker_ids": ids})
}

// AdminUpdateStatus changes a task's status on behalf of the office, without
// the assignment check field workers get.
func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	h.updateStatus(c, "")
}
