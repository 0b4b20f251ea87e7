// Package attendance holds the attendance resolution engine: matching scan
// instants against the day's subject schedule, deciding whether an event
// opens or closes a record, computing late/present statuses and folding a
// day's records into a single reportable status.
package attendance

// Status is the resolved state of one attendance record or of a whole day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
	StatusExcused Status = "excused"
)

// Valid returns true when the status is a supported value.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusOnLeave, StatusExcused:
		return true
	default:
		return false
	}
}

// severity ranks statuses for the daily fold: absent > late >
// (excused | on-leave | half-day) > present. The middle group is mutually
// exclusive by construction, so the shared rank never produces a tie.
func (s Status) severity() int {
	switch s {
	case StatusAbsent:
		return 4
	case StatusLate:
		return 3
	case StatusExcused, StatusOnLeave, StatusHalfDay:
		return 2
	case StatusPresent:
		return 1
	default:
		return 0
	}
}

// Worst returns the highest-severity status of the set. It is the single
// place the "worst status wins" rule is defined.
func Worst(statuses []Status) Status {
	worst := Status("")
	for _, s := range statuses {
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst
}
