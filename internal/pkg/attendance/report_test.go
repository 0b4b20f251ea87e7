package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLateReport(t *testing.T) {
	days := []DailyStatus{
		{StudentID: 1, Day: day(2026, 4, 6), Status: StatusLate, LatenessMinutes: 10},
		{StudentID: 1, Day: day(2026, 4, 7), Status: StatusPresent},
		{StudentID: 1, Day: day(2026, 4, 8), Status: StatusLate, LatenessMinutes: 20},
		{StudentID: 2, Day: day(2026, 4, 6), Status: StatusPresent},
	}

	rows := LateReport(days, 0)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].StudentID)
	assert.Equal(t, 2, rows[0].LateCount)
	assert.Equal(t, 30, rows[0].TotalLateMinutes)
	assert.Equal(t, day(2026, 4, 8), rows[0].LastLateDay)
}

func TestLateReportMinCountFilter(t *testing.T) {
	days := []DailyStatus{
		{StudentID: 1, Day: day(2026, 4, 6), Status: StatusLate, LatenessMinutes: 5},
		{StudentID: 2, Day: day(2026, 4, 6), Status: StatusLate, LatenessMinutes: 5},
		{StudentID: 2, Day: day(2026, 4, 7), Status: StatusLate, LatenessMinutes: 5},
	}

	rows := LateReport(days, 2)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].StudentID)
}

func TestAbsentReport(t *testing.T) {
	days := []DailyStatus{
		{StudentID: 3, Day: day(2026, 4, 8), Status: StatusAbsent},
		{StudentID: 3, Day: day(2026, 4, 6), Status: StatusAbsent},
		{StudentID: 1, Day: day(2026, 4, 7), Status: StatusAbsent},
		{StudentID: 2, Day: day(2026, 4, 7), Status: StatusLate, LatenessMinutes: 3},
	}

	rows := AbsentReport(days)
	assert.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].StudentID)
	assert.Equal(t, 1, rows[0].AbsentCount)

	assert.Equal(t, 3, rows[1].StudentID)
	assert.Equal(t, 2, rows[1].AbsentCount)
	// days sorted ascending
	assert.Equal(t, []time.Time{day(2026, 4, 6), day(2026, 4, 8)}, rows[1].AbsentDays)
	assert.Equal(t, day(2026, 4, 8), rows[1].LastAbsentDay)
}

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name        string
		daysInRange int
		absentDays  int
		want        float64
	}{
		{name: "no absences", daysInRange: 20, absentDays: 0, want: 100},
		{name: "some absences", daysInRange: 20, absentDays: 5, want: 75},
		{name: "all absent", daysInRange: 10, absentDays: 10, want: 0},
		{name: "zero range", daysInRange: 0, absentDays: 0, want: 0},
		{name: "more absences than days clamps", daysInRange: 5, absentDays: 9, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AttendanceRate(tt.daysInRange, tt.absentDays), 0.0001)
		})
	}
}
