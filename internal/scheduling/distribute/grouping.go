package distribute

import "github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"

// GroupingPattern marks which tasks should be displayed together with the
// next one so that n tasks read as at most availableDays blocks.
//
// Adjacent pairs are merged front to back until the surplus is absorbed. A
// cure task is never merged with a neighbour, and a task already merged into
// its predecessor does not start a new pair. When cure steps block enough
// pairs the surplus may remain; the hint is display-only.
func GroupingPattern(tasks []domain.Task, availableDays int) []bool {
	pattern := make([]bool, len(tasks))
	if len(tasks) <= availableDays {
		return pattern
	}

	needed := len(tasks) - availableDays
	grouped := 0
	for i := 0; i < len(tasks)-1 && grouped < needed; i++ {
		if tasks[i].IsCure || tasks[i+1].IsCure {
			continue
		}
		if i > 0 && pattern[i-1] {
			continue
		}
		pattern[i] = true
		grouped++
	}
	return pattern
}

// ApplyGrouping sets GroupWithNext on tasks in place.
func ApplyGrouping(tasks []domain.Task, availableDays int) {
	for i, g := range GroupingPattern(tasks, availableDays) {
		tasks[i].GroupWithNext = g
	}
}

// Blocks splits tasks into display blocks, closing a block at every task
// that does not group with the next one.
func Blocks(tasks []domain.Task) [][]domain.Task {
	var (
		out     [][]domain.Task
		current []domain.Task
	)
	for i, t := range tasks {
		current = append(current, t)
		if !t.GroupWithNext || i == len(tasks)-1 {
			out = append(out, current)
			current = nil
		}
	}
	return out
}
