package http

import "github.com/gin-gonic/gin"

// RegisterAdmin registers the back-office routes.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	projects := rg.Group("/projects/:project_id")
	projects.GET("/schedule/scope", h.GetScope)
	projects.GET("/schedule/preview", h.PreviewSchedule)
	projects.POST("/schedule/generate", h.GenerateSchedule)

	projects.GET("/tasks", h.ListTasks)
	projects.GET("/tasks/stats", h.GetTaskStats)
	projects.GET("/tasks/events", h.StreamTaskEvents)
	projects.POST("/tasks/publish", h.PublishTasks)
	projects.PUT("/tasks/:task_id/assignments", h.ReplaceAssignments)
	projects.PATCH("/tasks/:task_id/status", h.AdminUpdateStatus)

	rg.POST("/schedule/batch", h.GenerateBatch)
	rg.GET("/schedule/runs", h.ListRuns)
	rg.GET("/schedule/runs/:run_id", h.GetRun)
	rg.GET("/schedule/metrics", h.GetMetrics)
}

// RegisterField registers the field-app routes. The group must carry the
// worker identity middleware.
func (h *Handler) RegisterField(rg *gin.RouterGroup) {
	rg.GET("/projects/:project_id/tasks", h.ListVisibleTasks)
	rg.PATCH("/projects/:project_id/tasks/:task_id/status", h.UpdateStatus)
}
