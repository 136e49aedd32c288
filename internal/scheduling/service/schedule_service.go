package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/calendar"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/distribute"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/scope"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/template"
	"github.com/google/uuid"
)

// GenerateOptions tunes a single generation.
type GenerateOptions struct {
	// Scope replaces the classified scope when set.
	Scope domain.Scope `json:"scope,omitempty"`
}

// Plan is a fully computed schedule that has not been written.
type Plan struct {
	ProjectID   string                 `json:"project_id"`
	Scope       domain.Scope           `json:"scope"`
	CrewSize    int                    `json:"crew_size"`
	WindowStart time.Time              `json:"window_start"`
	WindowEnd   time.Time              `json:"window_end"`
	WorkDays    int                    `json:"work_days"`
	Tasks       []domain.Task          `json:"tasks"`
	Capacity    []distribute.DayLoad   `json:"capacity,omitempty"`
	Blocks      int                    `json:"blocks,omitempty"`
	Window      *domain.ScheduleWindow `json:"-"`
}

// ScopePreview shows how a project classifies and which steps it would get.
type ScopePreview struct {
	ProjectID string        `json:"project_id"`
	Areas     scope.Areas   `json:"areas"`
	HasScope  bool          `json:"has_scope"`
	Scope     domain.Scope  `json:"scope,omitempty"`
	Steps     []domain.Step `json:"steps"`
}

// ScheduleService turns projects into persisted task schedules.
type ScheduleService struct {
	projects    ProjectStore
	tasks       TaskStore
	runs        RunStore
	registry    *template.Registry
	defaultCrew int

	newID func() string
	now   func() time.Time
}

// NewScheduleService wires the generator. runs may be nil, in which case
// batch results are returned but not stored.
func NewScheduleService(projects ProjectStore, tasks TaskStore, runs RunStore, registry *template.Registry, defaultCrew int) *ScheduleService {
	return &ScheduleService{
		projects:    projects,
		tasks:       tasks,
		runs:        runs,
		registry:    registry,
		defaultCrew: defaultCrew,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Generate builds and stores the schedule of one project. It never returns
// an error; the outcome carries it.
func (s *ScheduleService) Generate(ctx context.Context, projectID string, opts GenerateOptions) domain.Outcome {
	logger := NewLogger(ctx)
	start := time.Now()

	out := s.generate(ctx, projectID, opts)
	recordGeneration(out.Kind, time.Since(start))

	switch out.Kind {
	case domain.OutcomeCreated:
		logger.LogInfof("generate", "project_id=%s scope=%s tasks=%d", projectID, out.Scope, out.Count)
	case domain.OutcomeSkipped:
		logger.LogInfof("generate", "project_id=%s skipped=%s", projectID, out.Reason)
	default:
		logger.LogError("generate", fmt.Errorf("project_id=%s: %w", projectID, out.Err))
	}
	return out
}

func (s *ScheduleService) generate(ctx context.Context, projectID string, opts GenerateOptions) domain.Outcome {
	existing, err := s.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return domain.Failed(projectID, err)
	}
	if existing > 0 {
		return domain.Skipped(projectID, domain.SkipAlreadyScheduled)
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.Failed(projectID, err)
	}

	plan, err := s.buildPlan(project, opts)
	if err != nil {
		if reason, ok := domain.SkipReasonFor(err); ok {
			return domain.Skipped(projectID, reason)
		}
		return domain.Failed(projectID, err)
	}

	n, err := s.tasks.CreateScheduleIfAbsent(ctx, projectID, plan.Tasks, plan.Window)
	if err != nil {
		if reason, ok := domain.SkipReasonFor(err); ok {
			return domain.Skipped(projectID, reason)
		}
		return domain.Failed(projectID, err)
	}
	return domain.Created(projectID, plan.Scope, n, plan.WindowEnd)
}

// Preview computes the schedule Generate would write, with the per-day
// capacity check, without touching storage.
func (s *ScheduleService) Preview(ctx context.Context, projectID string, opts GenerateOptions) (*Plan, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	plan, err := s.buildPlan(project, opts)
	if err != nil {
		return nil, err
	}
	plan.Capacity = distribute.CapacityReport(plan.Tasks, plan.CrewSize)
	plan.Blocks = len(distribute.Blocks(plan.Tasks))
	return plan, nil
}

// ScopePreview classifies a project and lists its template steps.
func (s *ScheduleService) ScopePreview(ctx context.Context, projectID string) (*ScopePreview, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	areas := scope.FromProject(*project)
	preview := &ScopePreview{
		ProjectID: projectID,
		Areas:     areas,
		HasScope:  scope.HasScope(areas),
		Steps:     []domain.Step{},
	}
	if !preview.HasScope {
		return preview, nil
	}

	preview.Scope = scope.Classify(areas)
	steps, err := s.registry.Steps(preview.Scope)
	if err != nil {
		return nil, err
	}
	preview.Steps = steps
	return preview, nil
}

// GenerateBatch runs Generate for each project in turn. An empty list means
// every project without tasks. One project's failure never stops the rest.
func (s *ScheduleService) GenerateBatch(ctx context.Context, projectIDs []string) (*domain.BatchResult, error) {
	logger := NewLogger(ctx)

	if len(projectIDs) == 0 {
		ids, err := s.projects.ListUnscheduled(ctx)
		if err != nil {
			return nil, err
		}
		projectIDs = ids
	}

	result := &domain.BatchResult{
		RunID:     s.newID(),
		StartedAt: s.now().UTC(),
		Outcomes:  make([]domain.Outcome, 0, len(projectIDs)),
	}
	for _, id := range projectIDs {
		if err := ctx.Err(); err != nil {
			result.Add(domain.Failed(id, err))
			continue
		}
		result.Add(s.Generate(ctx, id, GenerateOptions{}))
	}
	result.FinishedAt = s.now().UTC()
	recordBatchRun()

	logger.LogInfof("generate_batch", "run_id=%s projects=%d created=%d skipped=%d failed=%d",
		result.RunID, len(projectIDs), result.Created, result.Skipped, result.Failed)

	if s.runs != nil {
		if err := s.runs.Save(ctx, result); err != nil {
			logger.LogWarnf("generate_batch", "run_id=%s store result: %v", result.RunID, err)
		}
	}
	return result, nil
}

// GetRun returns a stored batch result.
func (s *ScheduleService) GetRun(ctx context.Context, runID string) (*domain.BatchResult, error) {
	if s.runs == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runs.Get(ctx, runID)
}

// ListRuns returns up to limit stored batch results, newest first, without
// their per-project outcomes. Runs whose record already expired are left out.
func (s *ScheduleService) ListRuns(ctx context.Context, limit int) ([]domain.BatchResult, error) {
	if s.runs == nil {
		return []domain.BatchResult{}, nil
	}
	ids, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BatchResult, 0, len(ids))
	for _, id := range ids {
		run, err := s.runs.Get(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		run.Outcomes = nil
		out = append(out, *run)
	}
	return out, nil
}

// buildPlan runs the pure pipeline: classify, template, calendar, distribute,
// chain and group. Guard order is no scope, then missing start date.
func (s *ScheduleService) buildPlan(p *domain.Project, opts GenerateOptions) (*Plan, error) {
	areas := scope.FromProject(*p)
	if !scope.HasScope(areas) {
		return nil, domain.ErrNoScope
	}
	if p.StartDate == nil {
		return nil, domain.ErrMissingStartDate
	}

	sc := scope.Classify(areas)
	if override := domain.ParseScope(string(opts.Scope)); override != "" {
		if !override.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScope, opts.Scope)
		}
		sc = override
	}

	steps, err := s.registry.Steps(sc)
	if err != nil {
		return nil, err
	}

	policy := calendar.Policy{AllowSaturday: p.AllowSaturday, AllowSunday: p.AllowSunday}
	start := calendar.Day(*p.StartDate)
	end, err := calendar.ResolveWindowEnd(start, p.DeadlineDate, p.EstimatedDays, policy)
	if err != nil {
		return nil, err
	}
	days := calendar.WorkDays(start, end, policy)

	crew := p.CrewSize
	if crew < 1 {
		crew = s.defaultCrew
	}

	tasks, err := distribute.Distribute(steps, days, crew)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for i := range tasks {
		tasks[i].ID = s.newID()
		tasks[i].ProjectID = p.ID
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
		if i > 0 {
			prev := tasks[i-1].ID
			tasks[i].DependsOnID = &prev
		}
	}
	distribute.ApplyGrouping(tasks, len(days))

	plan := &Plan{
		ProjectID:   p.ID,
		Scope:       sc,
		CrewSize:    crew,
		WindowStart: start,
		WindowEnd:   end,
		WorkDays:    len(days),
		Tasks:       tasks,
	}
	if p.DeadlineDate == nil {
		plan.Window = &domain.ScheduleWindow{DeadlineDate: end, EstimatedDays: len(days)}
	}
	return plan, nil
}
