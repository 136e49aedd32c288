package domain

import "time"

// Project is the schedule-relevant view of a customer project.
// Areas are in square metres, baseboard in linear metres; absent values are zero.
type Project struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	FloorArea       float64    `json:"floor_area"`
	WallArea        float64    `json:"wall_area"`
	CeilingArea     float64    `json:"ceiling_area"`
	BaseboardLength float64    `json:"baseboard_length"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DeadlineDate    *time.Time `json:"deadline_date,omitempty"`
	EstimatedDays   *int       `json:"estimated_days,omitempty"`
	CrewSize        int        `json:"crew_size"`
	AllowSaturday   bool       `json:"allow_saturday"`
	AllowSunday     bool       `json:"allow_sunday"`
}

// Step is one canonical unit of work in a template sequence.
type Step struct {
	Title   string  `json:"title" yaml:"title"`
	Phase   Phase   `json:"phase" yaml:"phase"`
	Surface Surface `json:"surface" yaml:"surface"`
	IsCure  bool    `json:"is_cure" yaml:"cure"`
	Color   string  `json:"color" yaml:"color"`
}

// Task is one scheduled step of a project.
type Task struct {
	ID                string     `json:"id"`
	ProjectID         string     `json:"project_id"`
	Title             string     `json:"title"`
	Phase             Phase      `json:"phase"`
	Surface           Surface    `json:"surface"`
	Color             string     `json:"color,omitempty"`
	SortOrder         int        `json:"sort_order"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	InputDays         int        `json:"input_days"`
	InputCrewSize     int        `json:"input_crew_size"`
	ConsumesResources bool       `json:"consumes_resources"`
	IsCure            bool       `json:"is_cure"`
	EstimatedHours    float64    `json:"estimated_hours"`
	GroupWithNext     bool       `json:"group_with_next"`
	DependsOnID       *string    `json:"depends_on_id,omitempty"`
	Published         bool       `json:"published"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	Status            TaskStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Assignment links a task to a field worker.
type Assignment struct {
	TaskID   string `json:"task_id"`
	WorkerID string `json:"worker_id"`
}

// VisibleTask is the field-app view of a task that passed the readiness gate.
type VisibleTask struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Phase         Phase      `json:"phase"`
	Surface       Surface    `json:"surface"`
	SortOrder     int        `json:"sort_order"`
	Status        TaskStatus `json:"status"`
	ScheduledDate time.Time  `json:"scheduled_date"`
}

// NewVisibleTask projects a task onto its field-app view.
func NewVisibleTask(t Task) VisibleTask {
	return VisibleTask{
		ID:            t.ID,
		Title:         t.Title,
		Phase:         t.Phase,
		Surface:       t.Surface,
		SortOrder:     t.SortOrder,
		Status:        t.Status,
		ScheduledDate: t.StartDate,
	}
}

// TaskStats summarises a project's schedule.
type TaskStats struct {
	ProjectID           string             `json:"project_id"`
	TotalTasks          int                `json:"total_tasks"`
	StatusCounts        map[TaskStatus]int `json:"status_counts"`
	PublishedTasks      int                `json:"published_tasks"`
	TotalEstimatedHours float64            `json:"total_estimated_hours"`
	OverallProgress     int                `json:"overall_progress"`
	FirstDay            *time.Time         `json:"first_day,omitempty"`
	LastDay             *time.Time         `json:"last_day,omitempty"`
}

// StatusChange is published whenever a task's status is written.
type StatusChange struct {
	ProjectID string     `json:"project_id"`
	TaskID    string     `json:"task_id"`
	WorkerID  string     `json:"worker_id,omitempty"`
	From      TaskStatus `json:"from"`
	To        TaskStatus `json:"to"`
	At        time.Time  `json:"at"`
}

// ScheduleWindow is written back to a project that had no deadline, in the
// same transaction as its tasks. EstimatedDays is the work-day count of the
// derived window.
type ScheduleWindow struct {
	DeadlineDate  time.Time
	EstimatedDays int
}
