package distribute

import (
	"testing"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workDays(n int) []time.Time {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func floorSteps(t *testing.T) []domain.Step {
	t.Helper()
	steps, err := template.MustDefault().Steps(domain.ScopeFloorOnly)
	require.NoError(t, err)
	return steps
}

func indexOf(days []time.Time, d time.Time) int {
	for i, x := range days {
		if x.Equal(d) {
			return i
		}
	}
	return -1
}

func TestDistribute_EvenSpread(t *testing.T) {
	steps := floorSteps(t)
	days := workDays(13)

	tasks, err := Distribute(steps, days, 4)
	require.NoError(t, err)
	require.Len(t, tasks, 13)

	for i, task := range tasks {
		assert.Equal(t, days[i], task.StartDate, "step %d gets its own day", i+1)
		assert.Equal(t, task.StartDate, task.EndDate)
		assert.Equal(t, i+1, task.SortOrder)
		if i > 0 {
			assert.True(t, task.StartDate.After(tasks[i-1].StartDate))
		}
	}
}

func TestDistribute_SpreadOverLongerWindow(t *testing.T) {
	steps := floorSteps(t)
	days := workDays(20)

	tasks, err := Distribute(steps, days, 4)
	require.NoError(t, err)

	assert.Equal(t, days[0], tasks[0].StartDate)
	prev := -1
	for i, task := range tasks {
		idx := indexOf(days, task.StartDate)
		assert.Equal(t, i*20/13, idx)
		assert.Greater(t, idx, prev, "distinct days when M >= N")
		prev = idx
	}
}

func TestDistribute_Grouped(t *testing.T) {
	steps := floorSteps(t)
	days := workDays(3)

	tasks, err := Distribute(steps, days, 4)
	require.NoError(t, err)
	require.Len(t, tasks, 13)

	prev := 0
	for _, task := range tasks {
		idx := indexOf(days, task.StartDate)
		assert.GreaterOrEqual(t, idx, 0)
		assert.LessOrEqual(t, idx, 2)
		assert.GreaterOrEqual(t, idx, prev, "non-decreasing")
		prev = idx
	}
	assert.Equal(t, days[2], tasks[12].StartDate, "last day receives the final step")
	assert.Equal(t, days[0], tasks[4].StartDate, "ceil(13/3)=5 steps on the first day")
	assert.Equal(t, days[1], tasks[5].StartDate)
}

func TestDistribute_SingleDay(t *testing.T) {
	tasks, err := Distribute(floorSteps(t), workDays(1), 2)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, workDays(1)[0], task.StartDate)
	}
}

func TestDistribute_EmptyCalendar(t *testing.T) {
	tasks, err := Distribute(floorSteps(t), nil, 4)
	assert.ErrorIs(t, err, domain.ErrEmptyCalendar)
	assert.Nil(t, tasks)
}

func TestDistribute_CureSteps(t *testing.T) {
	for _, crew := range []int{1, 4, 9} {
		tasks, err := Distribute(floorSteps(t), workDays(13), crew)
		require.NoError(t, err)

		for _, task := range tasks {
			assert.Equal(t, 1, task.InputDays)
			assert.Equal(t, domain.StatusPending, task.Status)
			if task.IsCure {
				assert.Equal(t, 0, task.InputCrewSize)
				assert.Zero(t, task.EstimatedHours)
				assert.False(t, task.ConsumesResources)
				continue
			}
			assert.Equal(t, crew, task.InputCrewSize)
			assert.Equal(t, float64(crew*7), task.EstimatedHours)
			assert.True(t, task.ConsumesResources)
		}
	}
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		i, n, m int
		want    int
	}{
		{0, 13, 13, 0},
		{12, 13, 13, 12},
		{12, 13, 26, 24},
		{0, 13, 3, 0},
		{4, 13, 3, 0},
		{5, 13, 3, 1},
		{12, 13, 3, 2},
		{21, 22, 5, 4},
		{6, 7, 2, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayIndex(tt.i, tt.n, tt.m), "i=%d n=%d m=%d", tt.i, tt.n, tt.m)
	}
}

func TestDayIndex_NeverExceedsLastDay(t *testing.T) {
	for n := 1; n <= 30; n++ {
		for m := 1; m <= 30; m++ {
			for i := 0; i < n; i++ {
				idx := DayIndex(i, n, m)
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, m, "i=%d n=%d m=%d", i, n, m)
			}
		}
	}
}
