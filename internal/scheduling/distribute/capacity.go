package distribute

import (
	"sort"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/calendar"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

// DayLoad compares the labour booked on one day with the crew's capacity.
type DayLoad struct {
	Day            time.Time `json:"day"`
	Tasks          int       `json:"tasks"`
	UsedHours      float64   `json:"used_hours"`
	AvailableHours float64   `json:"available_hours"`
	ExceedsBy      float64   `json:"exceeds_by"`
	Valid          bool      `json:"valid"`
}

// DailyCapacity is the person-hours a crew of crewSize delivers in a day.
func DailyCapacity(crewSize int) float64 {
	return LaborHours(1, crewSize)
}

// ValidateDay checks whether tasks sharing a day fit the crew. Steps that
// do not consume resources are ignored; the rest run in parallel, so only
// their crew sizes add up.
func ValidateDay(day time.Time, tasks []domain.Task, crewSize int) DayLoad {
	available := DailyCapacity(crewSize)

	var used float64
	for _, t := range tasks {
		if !t.ConsumesResources {
			continue
		}
		used += LaborHours(1, t.InputCrewSize)
	}

	exceeds := used - available
	if exceeds < 0 {
		exceeds = 0
	}

	return DayLoad{
		Day:            day,
		Tasks:          len(tasks),
		UsedHours:      used,
		AvailableHours: available,
		ExceedsBy:      exceeds,
		Valid:          used <= available,
	}
}

// CapacityReport validates every scheduled day, ascending by date.
func CapacityReport(tasks []domain.Task, crewSize int) []DayLoad {
	byDay := make(map[time.Time][]domain.Task)
	for _, t := range tasks {
		d := calendar.Day(t.StartDate)
		byDay[d] = append(byDay[d], t)
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]DayLoad, 0, len(days))
	for _, d := range days {
		out = append(out, ValidateDay(d, byDay[d], crewSize))
	}
	return out
}
