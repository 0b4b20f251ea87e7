package attendance

import "time"

// DateRange is an inclusive [From, To] span of calendar days. The instants
// are date-only values; only year, month and day are compared.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether day falls inside the range, both ends inclusive.
func (r DateRange) Contains(day time.Time) bool {
	d := truncateToDay(day)
	return !d.Before(truncateToDay(r.From)) && !d.After(truncateToDay(r.To))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyLeave overrides a computed status with on-leave when the day falls
// inside any approved leave range. Leave has the highest precedence of all
// status rules; check-in data stays untouched and informational.
func ApplyLeave(status Status, day time.Time, approved []DateRange) Status {
	for _, r := range approved {
		if r.Contains(day) {
			return StatusOnLeave
		}
	}
	return status
}
