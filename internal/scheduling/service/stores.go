package service

import (
	"context"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

// ProjectStore is implemented by repository.ProjectRepository.
type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListUnscheduled(ctx context.Context) ([]string, error)
}

// TaskStore is implemented by repository.TaskRepository.
type TaskStore interface {
	CountByProject(ctx context.Context, projectID string) (int, error)
	CreateScheduleIfAbsent(ctx context.Context, projectID string, tasks []domain.Task, window *domain.ScheduleWindow) (int, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	ListPublished(ctx context.Context, projectID string) ([]domain.Task, error)
	ListAssignedPublished(ctx context.Context, projectID, workerID string) ([]domain.Task, error)
	GetByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, projectID, taskID string, next domain.TaskStatus) (domain.TaskStatus, error)
	PublishAll(ctx context.Context, projectID string) (int, error)
}

// AssignmentStore is implemented by repository.AssignmentRepository.
type AssignmentStore interface {
	Replace(ctx context.Context, taskID string, workerIDs []string) error
	ListByTask(ctx context.Context, taskID string) ([]string, error)
	IsAssigned(ctx context.Context, taskID, workerID string) (bool, error)
}

// RunStore is implemented by repository.GenerationRunRepository.
type RunStore interface {
	Save(ctx context.Context, run *domain.BatchResult) error
	Get(ctx context.Context, runID string) (*domain.BatchResult, error)
	ListRecent(ctx context.Context, limit int) ([]string, error)
}

// EventPublisher is implemented by repository.StatusEventPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, change domain.StatusChange) error
}
