package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/calendar"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

// TaskService covers the admin and field operations on generated tasks.
type TaskService struct {
	tasks       TaskStore
	assignments AssignmentStore
	events      EventPublisher

	now func() time.Time
}

// NewTaskService wires the task operations. events may be nil.
func NewTaskService(tasks TaskStore, assignments AssignmentStore, events EventPublisher) *TaskService {
	return &TaskService{
		tasks:       tasks,
		assignments: assignments,
		events:      events,
		now:         time.Now,
	}
}

func (s *TaskService) List(ctx context.Context, projectID string) ([]domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// Publish releases every task of the project to the field app.
func (s *TaskService) Publish(ctx context.Context, projectID string) (int, error) {
	n, err := s.tasks.PublishAll(ctx, projectID)
	if err != nil {
		return 0, err
	}
	NewLogger(ctx).LogInfof("publish", "project_id=%s tasks=%d", projectID, n)
	return n, nil
}

// UpdateStatus moves a task forward. With a non-empty workerID the task must
// be published and assigned to that worker, otherwise it is reported as not
// found. Moving to the current status succeeds without emitting an event.
func (s *TaskService) UpdateStatus(ctx context.Context, projectID, taskID, workerID string, next domain.TaskStatus) (*domain.StatusChange, error) {
	change, err := s.updateStatus(ctx, projectID, taskID, workerID, next)
	recordStatusUpdate(err)
	return change, err
}

func (s *TaskService) updateStatus(ctx context.Context, projectID, taskID, workerID string, next domain.TaskStatus) (*domain.StatusChange, error) {
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if workerID != "" {
		task, err := s.tasks.GetByID(ctx, projectID, taskID)
		if err != nil {
			return nil, err
		}
		if !task.Published {
			return nil, domain.ErrTaskNotFound
		}
		ok, err := s.assignments.IsAssigned(ctx, taskID, workerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrTaskNotFound
		}
	}

	prev, err := s.tasks.UpdateStatus(ctx, projectID, taskID, next)
	if err != nil {
		return nil, err
	}

	change := &domain.StatusChange{
		ProjectID: projectID,
		TaskID:    taskID,
		WorkerID:  workerID,
		From:      prev,
		To:        next,
		At:        s.now().UTC(),
	}
	if prev != next && s.events != nil {
		if err := s.events.Publish(ctx, *change); err != nil {
			NewLogger(ctx).LogWarnf("update_status", "task_id=%s publish event: %v", taskID, err)
		}
	}
	return change, nil
}

// ReplaceAssignments sets the task's assignees and returns them.
func (s *TaskService) ReplaceAssignments(ctx context.Context, projectID, taskID string, workerIDs []string) ([]string, error) {
	if _, err := s.tasks.GetByID(ctx, projectID, taskID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(workerIDs))
	ids := make([]string, 0, len(workerIDs))
	for _, id := range workerIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if err := s.assignments.Replace(ctx, taskID, ids); err != nil {
		return nil, err
	}
	return s.assignments.ListByTask(ctx, taskID)
}

// Stats summarises a project's tasks. A project without tasks yields zeros.
func (s *TaskService) Stats(ctx context.Context, projectID string) (*domain.TaskStats, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &domain.TaskStats{
		ProjectID: projectID,
		StatusCounts: map[domain.TaskStatus]int{
			domain.StatusPending:    0,
			domain.StatusInProgress: 0,
			domain.StatusCompleted:  0,
		},
		TotalTasks: len(tasks),
	}
	for _, t := range tasks {
		stats.StatusCounts[t.Status]++
		stats.TotalEstimatedHours += t.EstimatedHours
		if t.Published {
			stats.PublishedTasks++
		}

		d := calendar.Day(t.StartDate)
		if stats.FirstDay == nil || d.Before(*stats.FirstDay) {
			first := d
			stats.FirstDay = &first
		}
		end := calendar.Day(t.EndDate)
		if stats.LastDay == nil || end.After(*stats.LastDay) {
			last := end
			stats.LastDay = &last
		}
	}
	if stats.TotalTasks > 0 {
		done := float64(stats.StatusCounts[domain.StatusCompleted])
		stats.OverallProgress = int(math.Round(done / float64(stats.TotalTasks) * 100))
	}
	return stats, nil
}
