package http

import (
	"context"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/service"
	"github.com/redis/go-redis/v9"
)

// Scheduler is implemented by service.ScheduleService.
type Scheduler interface {
	Generate(ctx context.Context, projectID string, opts service.GenerateOptions) domain.Outcome
	GenerateBatch(ctx context.Context, projectIDs []string) (*domain.BatchResult, error)
	Preview(ctx context.Context, projectID string, opts service.GenerateOptions) (*service.Plan, error)
	ScopePreview(ctx context.Context, projectID string) (*service.ScopePreview, error)
	GetRun(ctx context.Context, runID string) (*domain.BatchResult, error)
	ListRuns(ctx context.Context, limit int) ([]domain.BatchResult, error)
}

// Tasks is implemented by service.TaskService.
type Tasks interface {
	List(ctx context.Context, projectID string) ([]domain.Task, error)
	Stats(ctx context.Context, projectID string) (*domain.TaskStats, error)
	Publish(ctx context.Context, projectID string) (int, error)
	ReplaceAssignments(ctx context.Context, projectID, taskID string, workerIDs []string) ([]string, error)
	UpdateStatus(ctx context.Context, projectID, taskID, workerID string, next domain.TaskStatus) (*domain.StatusChange, error)
}

// Readiness is implemented by service.ReadinessService.
type Readiness interface {
	VisibleTasks(ctx context.Context, projectID, workerID string) ([]domain.VisibleTask, error)
}

// EventSource is implemented by repository.StatusEventPublisher.
type EventSource interface {
	Subscribe(ctx context.Context, projectID string) *redis.PubSub
}

// Handler serves the admin and field scheduling endpoints.
type Handler struct {
	scheduler Scheduler
	tasks     Tasks
	readiness Readiness
	events    EventSource
}

// New creates a Handler. events may be nil, which disables the event stream.
func New(scheduler Scheduler, tasks Tasks, readiness Readiness, events EventSource) *Handler {
	return &Handler{
		scheduler: scheduler,
		tasks:     tasks,
		readiness: readiness,
		events:    events,
	}
}
