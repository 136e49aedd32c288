// Package distribute maps template steps onto eligible work days and
// computes each step's resourcing.
package distribute

import (
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

const (
	// WorkHoursPerDay is the length of a crew member's day, lunch included.
	WorkHoursPerDay = 8
	// LunchBreakHours is unpaid time inside WorkHoursPerDay.
	LunchBreakHours = 1
	// EffectiveHoursPerPerson is the labour one person delivers per work day.
	EffectiveHoursPerPerson = WorkHoursPerDay - LunchBreakHours

	// DaysPerStep is the duration every generated step is given.
	DaysPerStep = 1
)

// DayIndex returns the position in a list of m work days that step i of n
// is scheduled on. m must be positive.
//
// With at least as many days as steps the steps are spread over the whole
// window (floor(i*m/n)); otherwise steps are packed ceil(n/m) per day and the
// last day absorbs any remainder.
func DayIndex(i, n, m int) int {
	if m >= n {
		return i * m / n
	}
	perDay := (n + m - 1) / m
	idx := i / perDay
	if idx > m-1 {
		idx = m - 1
	}
	return idx
}

// Distribute assigns every step a work day and resourcing. Tasks come back
// in step order with SortOrder 1..n and status PENDING; ids, project and
// predecessor links are the caller's concern.
func Distribute(steps []domain.Step, days []time.Time, crewSize int) ([]domain.Task, error) {
	if len(days) == 0 {
		return nil, domain.ErrEmptyCalendar
	}

	n, m := len(steps), len(days)
	tasks := make([]domain.Task, 0, n)
	for i, step := range steps {
		day := days[DayIndex(i, n, m)]

		crew := crewSize
		if step.IsCure {
			crew = 0
		}

		tasks = append(tasks, domain.Task{
			Title:             step.Title,
			Phase:             step.Phase,
			Surface:           step.Surface,
			Color:             step.Color,
			SortOrder:         i + 1,
			StartDate:         day,
			EndDate:           day,
			InputDays:         DaysPerStep,
			InputCrewSize:     crew,
			ConsumesResources: !step.IsCure,
			IsCure:            step.IsCure,
			EstimatedHours:    LaborHours(DaysPerStep, crew),
			Status:            domain.StatusPending,
		})
	}
	return tasks, nil
}

// LaborHours converts days × people into person-hours.
func LaborHours(days, people int) float64 {
	return float64(days * people * EffectiveHoursPerPerson)
}
