package http

import "github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"

type GenerateRequest struct {
	Scope domain.Scope `json:"scope,omitempty"`
}

type BatchRequest struct {
	ProjectIDs []string `json:"project_ids,omitempty"`
}

type AssignmentsRequest struct {
	WorkerIDs []string `json:"worker_ids"`
}

type StatusRequest struct {
	Status domain.TaskStatus `json:"status" binding:"required"`
}
