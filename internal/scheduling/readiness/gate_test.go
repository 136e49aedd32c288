package readiness

import (
	"testing"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func task(id string, order int, status domain.TaskStatus, dependsOn string) domain.Task {
	t := domain.Task{ID: id, SortOrder: order, Status: status, Published: true}
	if dependsOn != "" {
		t.DependsOnID = ptr(dependsOn)
	}
	return t
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter_PredecessorGating(t *testing.T) {
	t1 := task("t1", 1, domain.StatusPending, "")
	t2 := task("t2", 2, domain.StatusPending, "t1")

	all := []domain.Task{t1, t2}
	assert.Equal(t, []string{"t1"}, ids(Filter(all, StatusMap(all))))

	t1.Status = domain.StatusCompleted
	all = []domain.Task{t1, t2}
	assert.Equal(t, []string{"t1", "t2"}, ids(Filter(all, StatusMap(all))))
}

func TestFilter_InProgressPredecessorBlocks(t *testing.T) {
	t1 := task("t1", 1, domain.StatusInProgress, "")
	t2 := task("t2", 2, domain.StatusPending, "t1")

	all := []domain.Task{t1, t2}
	assert.Equal(t, []string{"t1"}, ids(Filter(all, StatusMap(all))))
}

func TestFilter_PredecessorCompletedByOtherWorker(t *testing.T) {
	// Worker only holds t2; t1 belongs to someone else but is in the project map.
	t1 := task("t1", 1, domain.StatusCompleted, "")
	t2 := task("t2", 2, domain.StatusPending, "t1")

	got := Filter([]domain.Task{t2}, StatusMap([]domain.Task{t1, t2}))
	assert.Equal(t, []string{"t2"}, ids(got))
}

func TestFilter_CompletedAlwaysVisible(t *testing.T) {
	t1 := task("t1", 1, domain.StatusPending, "")
	t2 := task("t2", 2, domain.StatusCompleted, "t1")

	all := []domain.Task{t1, t2}
	assert.Equal(t, []string{"t1", "t2"}, ids(Filter(all, StatusMap(all))))
}

func TestFilter_UnpublishedPredecessorBlocks(t *testing.T) {
	t2 := task("t2", 2, domain.StatusPending, "t1")

	got := Filter([]domain.Task{t2}, StatusMap([]domain.Task{t2}))
	assert.Empty(t, got)
}

func TestFilter_EmptyDependsOnIsNoPredecessor(t *testing.T) {
	t1 := domain.Task{ID: "t1", Status: domain.StatusPending, DependsOnID: ptr("")}
	assert.True(t, IsReady(t1, map[string]domain.TaskStatus{}))
}
