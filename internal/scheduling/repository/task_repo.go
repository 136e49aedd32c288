package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const taskColumns = `
	t.id, t.project_id, t.title, t.phase, t.surface, t.color, t.sort_order,
	t.start_date, t.end_date, t.input_days, t.input_crew_size,
	t.consumes_resources, t.is_cure, t.estimated_hours, t.group_with_next,
	t.depends_on_id, t.published, t.published_at, t.status,
	t.created_at, t.updated_at`

// TaskRepository persists generated project tasks.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CountByProject returns how many tasks a project has.
func (r *TaskRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_tasks WHERE project_id = $1`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// CreateScheduleIfAbsent inserts a project's whole schedule in one
// transaction. The project row is locked and the task count re-checked
// under the lock, so of two concurrent callers only one inserts; the other
// gets ErrAlreadyScheduled. When window is non-nil the project's missing
// deadline and its estimate are written by the same transaction.
func (r *TaskRepository) CreateScheduleIfAbsent(ctx context.Context, projectID string, tasks []domain.Task, window *domain.ScheduleWindow) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID,
	).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProjectNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock project: %w", err)
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_tasks WHERE project_id = $1`, projectID,
	).Scan(&existing)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	if existing > 0 {
		return 0, domain.ErrAlreadyScheduled
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project_tasks (
			id, project_id, title, phase, surface, color, sort_order,
			start_date, end_date, input_days, input_crew_size,
			consumes_resources, is_cure, estimated_hours, group_with_next,
			depends_on_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare task insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			projectID,
			t.Title,
			string(t.Phase),
			string(t.Surface),
			t.Color,
			t.SortOrder,
			t.StartDate,
			t.EndDate,
			t.InputDays,
			t.InputCrewSize,
			t.ConsumesResources,
			t.IsCure,
			t.EstimatedHours,
			t.GroupWithNext,
			nullString(t.DependsOnID),
			string(t.Status),
		)
		if err != nil {
			if pqCode(err) == uniqueViolation {
				return 0, domain.ErrAlreadyScheduled
			}
			return 0, fmt.Errorf("failed to insert task %d: %w", t.SortOrder, err)
		}
	}

	if window != nil {
		_, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET deadline_date = COALESCE(deadline_date, $2),
			    estimated_days = $3,
			    updated_at = NOW()
			WHERE id = $1
		`, projectID, window.DeadlineDate, window.EstimatedDays)
		if err != nil {
			return 0, fmt.Errorf("failed to update project window: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if pqCode(err) == uniqueViolation {
			return 0, domain.ErrAlreadyScheduled
		}
		return 0, fmt.Errorf("failed to commit schedule: %w", err)
	}
	return len(tasks), nil
}

// ListByProject returns every task of a project in sort order.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM project_tasks t
		WHERE t.project_id = $1
		ORDER BY t.sort_order`
	return r.list(ctx, "tasks", query, projectID)
}

// ListPublished returns the published tasks of a project in sort order.
func (r *TaskRepository) ListPublished(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM project_tasks t
		WHERE t.project_id = $1 AND t.published
		ORDER BY t.sort_order`
	return r.list(ctx, "published tasks", query, projectID)
}

// ListAssignedPublished returns the published tasks of a project assigned to
// the worker, in sort order.
func (r *TaskRepository) ListAssignedPublished(ctx context.Context, projectID, workerID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM project_tasks t
		JOIN task_assignments a ON a.task_id = t.id
		WHERE t.project_id = $1 AND a.worker_id = $2 AND t.published
		ORDER BY t.sort_order`
	return r.list(ctx, "assigned tasks", query, projectID, workerID)
}

func (r *TaskRepository) GetByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM project_tasks t
		WHERE t.id = $1 AND t.project_id = $2`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// UpdateStatus moves a task to next if its current status is one of the
// allowed predecessors, returning the status it held before. A task whose
// status does not allow the move yields ErrInvalidTransition.
func (r *TaskRepository) UpdateStatus(ctx context.Context, projectID, taskID string, next domain.TaskStatus) (domain.TaskStatus, error) {
	allowed := domain.AllowedPredecessors(next)
	if len(allowed) == 0 {
		return "", domain.ErrInvalidStatus
	}
	from := make([]string, len(allowed))
	for i, s := range allowed {
		from[i] = string(s)
	}

	query := `
		WITH prev AS (
			SELECT id, status FROM project_tasks
			WHERE id = $1 AND project_id = $2
			FOR UPDATE
		)
		UPDATE project_tasks t
		SET status = $3, updated_at = NOW()
		FROM prev
		WHERE t.id = prev.id AND prev.status = ANY($4)
		RETURNING prev.status
	`

	var prev string
	err := r.db.QueryRowContext(ctx, query, taskID, projectID, string(next), pq.Array(from)).Scan(&prev)
	if err == nil {
		return domain.TaskStatus(prev), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to update task status: %w", err)
	}

	var current string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM project_tasks WHERE id = $1 AND project_id = $2`, taskID, projectID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrTaskNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read task status: %w", err)
	}
	return domain.TaskStatus(current), fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, next)
}

// PublishAll marks every task of the project published and returns how many
// tasks it holds. Tasks published earlier keep their original timestamp.
func (r *TaskRepository) PublishAll(ctx context.Context, projectID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE project_tasks
		SET published = TRUE,
		    published_at = COALESCE(published_at, NOW()),
		    updated_at = NOW()
		WHERE project_id = $1
	`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to publish tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read publish result: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrNoTasks
	}
	return int(n), nil
}

func (r *TaskRepository) list(ctx context.Context, what, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", what, err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (domain.Task, error) {
	var (
		t                      domain.Task
		phase, surface, status string
		dependsOn              sql.NullString
		publishedAt            sql.NullTime
	)
	err := s.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&phase,
		&surface,
		&t.Color,
		&t.SortOrder,
		&t.StartDate,
		&t.EndDate,
		&t.InputDays,
		&t.InputCrewSize,
		&t.ConsumesResources,
		&t.IsCure,
		&t.EstimatedHours,
		&t.GroupWithNext,
		&dependsOn,
		&t.Published,
		&publishedAt,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	t.Phase = domain.Phase(phase)
	t.Surface = domain.Surface(surface)
	t.Status = domain.TaskStatus(status)
	if dependsOn.Valid {
		id := dependsOn.String
		t.DependsOnID = &id
	}
	if publishedAt.Valid {
		at := publishedAt.Time
		t.PublishedAt = &at
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
