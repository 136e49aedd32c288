// Package readiness decides which assigned tasks a field worker may see.
package readiness

import "github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"

// StatusMap builds the id → status lookup over a project's published tasks.
func StatusMap(published []domain.Task) map[string]domain.TaskStatus {
	m := make(map[string]domain.TaskStatus, len(published))
	for _, t := range published {
		m[t.ID] = t.Status
	}
	return m
}

// IsReady reports whether t passes the gate given the project-wide status map.
//
// Completed tasks always pass so history stays visible. A task without a
// predecessor passes. Otherwise the predecessor must be in the map and
// completed; a predecessor missing from the map (unpublished, deleted) blocks.
func IsReady(t domain.Task, statusByID map[string]domain.TaskStatus) bool {
	if t.Status == domain.StatusCompleted {
		return true
	}
	if t.DependsOnID == nil || *t.DependsOnID == "" {
		return true
	}
	status, ok := statusByID[*t.DependsOnID]
	return ok && status.SatisfiesDependency()
}

// Filter keeps the assigned tasks that pass IsReady, preserving order.
func Filter(assigned []domain.Task, statusByID map[string]domain.TaskStatus) []domain.Task {
	out := make([]domain.Task, 0, len(assigned))
	for _, t := range assigned {
		if IsReady(t, statusByID) {
			out = append(out, t)
		}
	}
	return out
}
