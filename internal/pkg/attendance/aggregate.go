package attendance

import "time"

// DayRecord is the slice of one stored attendance record the daily fold
// needs.
type DayRecord struct {
	Status          Status
	LatenessMinutes int
}

// DailyStatus is the single resolved status of one student-day. It is
// derived, never persisted.
type DailyStatus struct {
	StudentID       int
	Day             time.Time
	Status          Status
	LatenessMinutes int
}

// AggregateDay folds a student's records of one calendar day into a single
// status. Leave is applied per record before the severity fold, and a day
// fully covered by approved leave resolves to on-leave even without
// records. A day with neither records nor leave yields ok=false: absence is
// an explicit fact, never inferred from missing data.
func AggregateDay(studentID int, day time.Time, records []DayRecord, approved []DateRange) (DailyStatus, bool) {
	if len(records) == 0 {
		if ApplyLeave("", day, approved) == StatusOnLeave {
			return DailyStatus{StudentID: studentID, Day: day, Status: StatusOnLeave}, true
		}
		return DailyStatus{}, false
	}

	statuses := make([]Status, 0, len(records))
	lateness := 0
	for _, rec := range records {
		status := ApplyLeave(rec.Status, day, approved)
		statuses = append(statuses, status)
		if status == StatusLate {
			lateness += rec.LatenessMinutes
		}
	}

	worst := Worst(statuses)
	if worst != StatusLate {
		lateness = 0
	}

	return DailyStatus{
		StudentID:       studentID,
		Day:             day,
		Status:          worst,
		LatenessMinutes: lateness,
	}, true
}
