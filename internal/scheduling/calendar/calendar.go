// Package calendar enumerates eligible work days under a weekend policy.
package calendar

import (
	"fmt"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

const (
	// FallbackWindowDays is the window length used when a project has
	// neither a deadline nor an estimated duration.
	FallbackWindowDays = 14
	// MaxWindowDays caps the calendar length of any scheduling window.
	MaxWindowDays = 730
)

// Policy says which weekend days count as work days.
type Policy struct {
	AllowSaturday bool
	AllowSunday   bool
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsEligible reports whether day is a work day under p.
func IsEligible(day time.Time, p Policy) bool {
	switch day.Weekday() {
	case time.Saturday:
		return p.AllowSaturday
	case time.Sunday:
		return p.AllowSunday
	default:
		return true
	}
}

// WorkDays returns every eligible day from start to end inclusive, ascending.
// The result is empty when end precedes start or the window holds only
// excluded weekend days. Callers bound the window with ResolveWindowEnd.
func WorkDays(start, end time.Time, p Policy) []time.Time {
	from, to := Day(start), Day(end)
	if to.Before(from) {
		return nil
	}

	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsEligible(d, p) {
			days = append(days, d)
		}
	}
	return days
}

// ResolveWindowEnd picks the last day of the scheduling window.
//
// An explicit deadline wins. Otherwise a positive estimate walks forward from
// start, advancing a day before each count and counting only eligible days,
// until the estimate is reached. Otherwise the window is FallbackWindowDays
// calendar days long. A window longer than MaxWindowDays calendar days
// returns domain.ErrWindowTooLong.
func ResolveWindowEnd(start time.Time, deadline *time.Time, estimatedDays *int, p Policy) (time.Time, error) {
	from := Day(start)

	if deadline != nil {
		end := Day(*deadline)
		if err := checkWindow(from, end); err != nil {
			return time.Time{}, err
		}
		return end, nil
	}

	if estimatedDays != nil && *estimatedDays > 0 {
		if *estimatedDays > MaxWindowDays {
			return time.Time{}, fmt.Errorf("%w: estimate of %d days", domain.ErrWindowTooLong, *estimatedDays)
		}
		// Terminates because every week holds at least five eligible days.
		d := from
		for counted := 0; counted < *estimatedDays; {
			d = d.AddDate(0, 0, 1)
			if IsEligible(d, p) {
				counted++
			}
		}
		if err := checkWindow(from, d); err != nil {
			return time.Time{}, err
		}
		return d, nil
	}

	return from.AddDate(0, 0, FallbackWindowDays), nil
}

func checkWindow(from, to time.Time) error {
	if to.After(from.AddDate(0, 0, MaxWindowDays)) {
		return fmt.Errorf("%w: %s to %s", domain.ErrWindowTooLong, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return nil
}

