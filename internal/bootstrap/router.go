package bootstrap

import (
	"time"

	httpapi "github.com/fieldcrew/coating-scheduler/internal/api/http"
	"github.com/fieldcrew/coating-scheduler/internal/api/http/middleware"
	"github.com/fieldcrew/coating-scheduler/internal/api/http/routes"
	"github.com/fieldcrew/coating-scheduler/internal/auth"
	schedhttp "github.com/fieldcrew/coating-scheduler/internal/scheduling/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	AdminAPIKey    string
	FieldRPS       float64
	FieldBurst     int
	Checks         []httpapi.Check
	Scheduling     *schedhttp.Handler
	Workers        auth.WorkerRegistry
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Checks...)
	healthHandler.RegisterRoutes(r)
	healthHandler.RegisterRoutes(r.Group("/api/v1"))

	routes.RegisterV1(r, routes.V1Deps{
		Scheduling:  dep.Scheduling,
		Workers:     dep.Workers,
		AdminAPIKey: dep.AdminAPIKey,
		FieldRPS:    dep.FieldRPS,
		FieldBurst:  dep.FieldBurst,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-API-Key", "X-Request-Id", "X-Worker-Id", "X-Worker-Name", "X-Worker-Phone"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
