package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/fieldcrew/coating-scheduler/config"
	"github.com/fieldcrew/coating-scheduler/internal/api/http/middleware"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/repository"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/service"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/template"
	"github.com/fieldcrew/coating-scheduler/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const usage = "usage: worker generate <projectID>... | generate-pending | preview <projectID> [scope] | migrate-down"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	service.SetLogLevel(cfg.App.LogLevel)

	db, err := postgres.NewConnection(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if os.Args[1] == "migrate-down" {
		if err := postgres.RollbackMigration(db, postgres.DefaultMigrationConfig(cfg.Database.Name)); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		return
	}

	if err := postgres.RunMigrations(db, postgres.DefaultMigrationConfig(cfg.Database.Name)); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	registry, err := template.Default()
	if err != nil {
		log.Fatalf("Failed to load schedule templates: %v", err)
	}

	svc := service.NewScheduleService(
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		repository.NewGenerationRunRepository(rdb),
		registry,
		cfg.Scheduling.DefaultCrewSize,
	)

	ctx := middleware.WithRequestID(context.Background(), "cli-"+uuid.NewString())
	args := os.Args[2:]

	switch os.Args[1] {
	case "generate":
		if len(args) == 0 {
			log.Fatal(usage)
		}
		res, err := svc.GenerateBatch(ctx, args)
		if err != nil {
			log.Fatalf("generate: %v", err)
		}
		printJSON(res)
	case "generate-pending":
		res, err := svc.GenerateBatch(ctx, nil)
		if err != nil {
			log.Fatalf("generate-pending: %v", err)
		}
		printJSON(res)
	case "preview":
		if len(args) == 0 {
			log.Fatal(usage)
		}
		var opts service.GenerateOptions
		if len(args) > 1 {
			opts.Scope = domain.ParseScope(args[1])
		}
		plan, err := svc.Preview(ctx, args[0], opts)
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		printJSON(plan)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
