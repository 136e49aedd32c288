package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

// ProjectRepository reads the schedule-relevant project columns.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `
		SELECT id, name, floor_area, wall_area, ceiling_area, baseboard_length,
		       start_date, deadline_date, estimated_days, crew_size,
		       allow_saturday, allow_sunday
		FROM projects
		WHERE id = $1
	`

	var (
		p                           domain.Project
		floor, wall, ceiling, board sql.NullFloat64
		start, deadline             sql.NullTime
		estimated                   sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&floor,
		&wall,
		&ceiling,
		&board,
		&start,
		&deadline,
		&estimated,
		&p.CrewSize,
		&p.AllowSaturday,
		&p.AllowSunday,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.FloorArea = floor.Float64
	p.WallArea = wall.Float64
	p.CeilingArea = ceiling.Float64
	p.BaseboardLength = board.Float64
	if start.Valid {
		t := start.Time
		p.StartDate = &t
	}
	if deadline.Valid {
		t := deadline.Time
		p.DeadlineDate = &t
	}
	if estimated.Valid {
		n := int(estimated.Int64)
		p.EstimatedDays = &n
	}
	return &p, nil
}

// ListUnscheduled returns the ids of projects that have no tasks yet, oldest first.
func (r *ProjectRepository) ListUnscheduled(ctx context.Context) ([]string, error) {
	query := `
		SELECT p.id
		FROM projects p
		WHERE NOT EXISTS (SELECT 1 FROM project_tasks t WHERE t.project_id = p.id)
		ORDER BY p.created_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscheduled projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return ids, nil
}
