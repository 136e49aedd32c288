package routes

import (
	"github.com/fieldcrew/coating-scheduler/internal/api/http/middleware"
	"github.com/fieldcrew/coating-scheduler/internal/auth"
	schedhttp "github.com/fieldcrew/coating-scheduler/internal/scheduling/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type V1Deps struct {
	Scheduling  *schedhttp.Handler
	Workers     auth.WorkerRegistry
	AdminAPIKey string
	FieldRPS    float64
	FieldBurst  int
}

// RegisterV1 mounts the back-office routes under /api/v1/admin and the
// field-app routes under /api/v1/field.
func RegisterV1(r gin.IRouter, dep V1Deps) {
	api := r.Group("/api/v1")

	admin := api.Group("/admin")
	admin.Use(middleware.APIKey(dep.AdminAPIKey))
	dep.Scheduling.RegisterAdmin(admin)

	// The limiter runs before WithWorker so throttled requests never reach
	// the worker upsert.
	field := api.Group("/field")
	if dep.FieldRPS > 0 {
		burst := dep.FieldBurst
		if burst < 1 {
			burst = 1
		}
		field.Use(middleware.RateLimiter(rate.Limit(dep.FieldRPS), burst, middleware.HeaderKey(auth.HeaderWorkerID)))
	}
	field.Use(auth.WithWorker(dep.Workers))
	dep.Scheduling.RegisterField(field)
	auth.RegisterRoutes(field, dep.Workers)
}
