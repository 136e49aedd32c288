package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/fieldcrew/coating-scheduler/internal/workers"
	"github.com/gin-gonic/gin"
)

const (
	CtxWorkerExternalID = "worker_external_id"
	CtxWorkerID         = "worker_id"

	HeaderWorkerID = "X-Worker-Id"
)

// WorkerRegistry is implemented by workers.Repo.
type WorkerRegistry interface {
	EnsureWorker(ctx context.Context, w workers.UpsertWorker) (string, error)
	GetByID(ctx context.Context, id string) (*workers.Worker, error)
}

// WithWorker resolves the field worker named by X-Worker-Id, registering it
// on first sight, and stores both ids in the Gin context.
func WithWorker(registry WorkerRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ext := strings.TrimSpace(c.GetHeader(HeaderWorkerID))
		if ext == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing X-Worker-Id"})
			return
		}

		id, err := registry.EnsureWorker(c.Request.Context(), workers.UpsertWorker{
			ExternalID:  ext,
			DisplayName: c.GetHeader("X-Worker-Name"),
			Phone:       c.GetHeader("X-Worker-Phone"),
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure worker: " + err.Error()})
			return
		}

		c.Set(CtxWorkerExternalID, ext)
		c.Set(CtxWorkerID, id)
		c.Next()
	}
}

// WorkerID returns the database id set by WithWorker, or "".
func WorkerID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxWorkerID))
}

// RegisterRoutes exposes the calling worker's profile.
func RegisterRoutes(rg *gin.RouterGroup, registry WorkerRegistry) {
	rg.GET("/me", func(c *gin.Context) {
		w, err := registry.GetByID(c.Request.Context(), WorkerID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "worker not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "worker": w})
	})
}
