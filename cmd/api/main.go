package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldcrew/coating-scheduler/config"
	httpapi "github.com/fieldcrew/coating-scheduler/internal/api/http"
	"github.com/fieldcrew/coating-scheduler/internal/bootstrap"
	cronjob "github.com/fieldcrew/coating-scheduler/internal/scheduling/cron"
	schedhttp "github.com/fieldcrew/coating-scheduler/internal/scheduling/http"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/repository"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/service"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/template"
	"github.com/fieldcrew/coating-scheduler/internal/storage/postgres"
	"github.com/fieldcrew/coating-scheduler/internal/workers"

	"github.com/redis/go-redis/v9"
)

const serviceName = "coating-scheduler"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	service.SetLogLevel(cfg.App.LogLevel)

	db, err := postgres.NewConnection(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, postgres.DefaultMigrationConfig(cfg.Database.Name)); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	pool, err := bootstrap.OpenDB(context.Background(), bootstrap.DBOptions{
		DSN:      postgres.URL(&cfg.Database),
		MaxConns: int32(cfg.Database.MaxOpenConns),
	})
	if err != nil {
		log.Fatalf("Failed to open pgx pool: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable: %v (run history and task events degraded)", err)
	}
	cancel()

	registry, err := template.Default()
	if err != nil {
		log.Fatalf("Failed to load schedule templates: %v", err)
	}

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	runRepo := repository.NewGenerationRunRepository(rdb)
	events := repository.NewStatusEventPublisher(rdb)

	scheduleSvc := service.NewScheduleService(projectRepo, taskRepo, runRepo, registry, cfg.Scheduling.DefaultCrewSize)
	taskSvc := service.NewTaskService(taskRepo, assignmentRepo, events)
	readinessSvc := service.NewReadinessService(taskRepo)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AdminAPIKey:    cfg.Server.AdminAPIKey,
		FieldRPS:       cfg.Field.RateLimitRPS,
		FieldBurst:     cfg.Field.RateLimitBurst,
		Checks: []httpapi.Check{
			{Name: "postgres", Ping: db.PingContext},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Scheduling: schedhttp.New(scheduleSvc, taskSvc, readinessSvc, events),
		Workers:    workers.NewRepo(pool),
	})

	var scheduler *cronjob.Scheduler
	if cfg.Scheduling.BatchEnabled {
		scheduler = cronjob.NewScheduler(scheduleSvc, cfg.Scheduling.BatchCron, 0)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Failed to start cron scheduler: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s listening on :%s (env=%s)", serviceName, cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
