package attendance

import (
	"sort"
	"time"
)

// LateRow sums a student's late days over a date range.
type LateRow struct {
	StudentID        int
	LateCount        int
	TotalLateMinutes int
	LastLateDay      time.Time
}

// AbsentRow sums a student's absent days over a date range.
type AbsentRow struct {
	StudentID     int
	AbsentCount   int
	AbsentDays    []time.Time
	LastAbsentDay time.Time
}

// LateReport folds daily statuses into one row per student counting late
// days. Rows with fewer than minLateCount late days are filtered out after
// aggregation; pass 0 to keep every late student. Rows come back in
// student id order.
func LateReport(days []DailyStatus, minLateCount int) []LateRow {
	byStudent := make(map[int]*LateRow)

	for _, d := range days {
		if d.Status != StatusLate {
			continue
		}
		row, ok := byStudent[d.StudentID]
		if !ok {
			row = &LateRow{StudentID: d.StudentID}
			byStudent[d.StudentID] = row
		}
		row.LateCount++
		row.TotalLateMinutes += d.LatenessMinutes
		if d.Day.After(row.LastLateDay) {
			row.LastLateDay = d.Day
		}
	}

	rows := make([]LateRow, 0, len(byStudent))
	for _, row := range byStudent {
		if row.LateCount < minLateCount {
			continue
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })

	return rows
}

// AbsentReport folds daily statuses into one row per student listing absent
// days. Rows come back in student id order with the days sorted ascending.
func AbsentReport(days []DailyStatus) []AbsentRow {
	byStudent := make(map[int]*AbsentRow)

	for _, d := range days {
		if d.Status != StatusAbsent {
			continue
		}
		row, ok := byStudent[d.StudentID]
		if !ok {
			row = &AbsentRow{StudentID: d.StudentID}
			byStudent[d.StudentID] = row
		}
		row.AbsentCount++
		row.AbsentDays = append(row.AbsentDays, d.Day)
		if d.Day.After(row.LastAbsentDay) {
			row.LastAbsentDay = d.Day
		}
	}

	rows := make([]AbsentRow, 0, len(byStudent))
	for _, row := range byStudent {
		sort.Slice(row.AbsentDays, func(i, j int) bool { return row.AbsentDays[i].Before(row.AbsentDays[j]) })
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })

	return rows
}

// AttendanceRate expresses presence over a range as a percentage, clamped
// to [0,100]. A zero day range yields 0 rather than dividing by zero.
func AttendanceRate(daysInRange, absentDays int) float64 {
	if daysInRange <= 0 {
		return 0
	}
	rate := float64(daysInRange-absentDays) / float64(daysInRange) * 100
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
