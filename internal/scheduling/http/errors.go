package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrUnknownScope):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyScheduled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoScope),
		errors.Is(err, domain.ErrMissingStartDate),
		errors.Is(err, domain.ErrEmptyCalendar),
		errors.Is(err, domain.ErrWindowTooLong),
		errors.Is(err, domain.ErrNoTasks),
		errors.Is(err, domain.ErrWorkerNotFound):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[error] request_id=%s path=%s error=%v", c.GetString("request_id"), c.FullPath(), err)
		c.JSON(status, gin.H{"ok": false, "error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

// pathUUID reads a path parameter that names a database row. A value that is
// not a UUID cannot match any row, so it answers with notFound.
func pathUUID(c *gin.Context, name string, notFound error) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": notFound.Error()})
		return "", false
	}
	return id.String(), true
}

func projectParam(c *gin.Context) (string, bool) {
	return pathUUID(c, "project_id", domain.ErrProjectNotFound)
}

func taskParam(c *gin.Context) (string, bool) {
	return pathUUID(c, "task_id", domain.ErrTaskNotFound)
}

// bodyUUIDs checks ids taken from a request body and answers 400 on the
// first malformed one.
func bodyUUIDs(c *gin.Context, field string, ids []string) bool {
	for _, raw := range ids {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": fmt.Sprintf("%s: %q is not a valid id", field, raw)})
			return false
		}
	}
	return true
}
