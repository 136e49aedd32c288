package service

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

type memProjects struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	order    []string
	tasks    *memTasks
}

func newMemProjects(tasks *memTasks, projects ...domain.Project) *memProjects {
	m := &memProjects{projects: map[string]domain.Project{}, tasks: tasks}
	for _, p := range projects {
		m.projects[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *memProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (m *memProjects) ListUnscheduled(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, id := range m.order {
		if n, _ := m.tasks.CountByProject(ctx, id); n == 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memTasks struct {
	mu       sync.Mutex
	byProj   map[string][]domain.Task
	windows  map[string]domain.ScheduleWindow
	assigned map[string]map[string]bool // task id -> worker ids
	inserts  int
}

func newMemTasks() *memTasks {
	return &memTasks{
		byProj:   map[string][]domain.Task{},
		windows:  map[string]domain.ScheduleWindow{},
		assigned: map[string]map[string]bool{},
	}
}

func (m *memTasks) CountByProject(_ context.Context, projectID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byProj[projectID]), nil
}

func (m *memTasks) CreateScheduleIfAbsent(_ context.Context, projectID string, tasks []domain.Task, window *domain.ScheduleWindow) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.byProj[projectID]) > 0 {
		return 0, domain.ErrAlreadyScheduled
	}
	m.byProj[projectID] = append([]domain.Task(nil), tasks...)
	if window != nil {
		m.windows[projectID] = *window
	}
	m.inserts++
	return len(tasks), nil
}

func (m *memTasks) ListByProject(_ context.Context, projectID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task{}, m.byProj[projectID]...), nil
}

func (m *memTasks) ListPublished(_ context.Context, projectID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Task{}
	for _, t := range m.byProj[projectID] {
		if t.Published {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) ListAssignedPublished(_ context.Context, projectID, workerID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Task{}
	for _, t := range m.byProj[projectID] {
		if t.Published && m.assigned[t.ID][workerID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memTasks) GetByID(_ context.Context, projectID, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byProj[projectID] {
		if t.ID == taskID {
			return &t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m *memTasks) UpdateStatus(_ context.Context, projectID, taskID string, next domain.TaskStatus) (domain.TaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.byProj[projectID] {
		if t.ID != taskID {
			continue
		}
		if !t.Status.CanTransitionTo(next) {
			return t.Status, domain.ErrInvalidTransition
		}
		m.byProj[projectID][i].Status = next
		return t.Status, nil
	}
	return "", domain.ErrTaskNotFound
}

func (m *memTasks) PublishAll(_ context.Context, projectID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.byProj[projectID]
	if len(tasks) == 0 {
		return 0, domain.ErrNoTasks
	}
	for i := range tasks {
		tasks[i].Published = true
	}
	return len(tasks), nil
}

// seed stores tasks directly, bypassing generation.
func (m *memTasks) seed(projectID string, tasks ...domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byProj[projectID] = append(m.byProj[projectID], tasks...)
}

func (m *memTasks) Replace(_ context.Context, taskID string, workerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[string]bool{}
	for _, id := range workerIDs {
		set[id] = true
	}
	m.assigned[taskID] = set
	return nil
}

func (m *memTasks) ListByTask(_ context.Context, taskID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for id := range m.assigned[taskID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memTasks) IsAssigned(_ context.Context, taskID, workerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assigned[taskID][workerID], nil
}

type memRuns struct {
	mu    sync.Mutex
	runs  map[string]domain.BatchResult
	order []string
}

func (m *memRuns) Save(_ context.Context, run *domain.BatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = map[string]domain.BatchResult{}
	}
	m.runs[run.RunID] = *run
	m.order = append([]string{run.RunID}, m.order...)
	return nil
}

func (m *memRuns) ListRecent(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.order) {
		limit = len(m.order)
	}
	return append([]string(nil), m.order[:limit]...), nil
}

func (m *memRuns) Get(_ context.Context, runID string) (*domain.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &r, nil
}

type memEvents struct {
	mu      sync.Mutex
	changes []domain.StatusChange
}

func (m *memEvents) Publish(_ context.Context, c domain.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, c)
	return nil
}
