package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/lib/pq"
)

// AssignmentRepository manages which workers hold which tasks.
type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Replace sets the task's assignees to exactly workerIDs.
func (r *AssignmentRepository) Replace(ctx context.Context, taskID string, workerIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignments WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	if len(workerIDs) > 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_assignments (task_id, worker_id)
			SELECT $1, w FROM unnest($2::uuid[]) AS w
			ON CONFLICT DO NOTHING
		`, taskID, pq.Array(workerIDs))
		if err != nil {
			if pqCode(err) == foreignKeyViolation {
				return domain.ErrWorkerNotFound
			}
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

// ListByTask returns the worker ids assigned to a task.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT worker_id FROM task_assignments WHERE task_id = $1 ORDER BY created_at, worker_id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return ids, nil
}

// IsAssigned reports whether the worker holds the task.
func (r *AssignmentRepository) IsAssigned(ctx context.Context, taskID, workerID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM task_assignments WHERE task_id = $1 AND worker_id = $2)`,
		taskID, workerID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return ok, nil
}
