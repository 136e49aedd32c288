package service

import (
	"context"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/readiness"
)

// ReadinessService computes the field-app task list of a worker.
type ReadinessService struct {
	tasks TaskStore
}

func NewReadinessService(tasks TaskStore) *ReadinessService {
	return &ReadinessService{tasks: tasks}
}

// VisibleTasks returns the worker's assigned, published tasks that are ready,
// in sort order. Readiness is recomputed on every call.
func (s *ReadinessService) VisibleTasks(ctx context.Context, projectID, workerID string) ([]domain.VisibleTask, error) {
	recordReadinessCall()

	published, err := s.tasks.ListPublished(ctx, projectID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.tasks.ListAssignedPublished(ctx, projectID, workerID)
	if err != nil {
		return nil, err
	}

	ready := readiness.Filter(assigned, readiness.StatusMap(published))
	out := make([]domain.VisibleTask, 0, len(ready))
	for _, t := range ready {
		out = append(out, domain.NewVisibleTask(t))
	}
	return out, nil
}
