package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{From: day(2026, 4, 6), To: day(2026, 4, 10)}

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{name: "inside", day: day(2026, 4, 8), want: true},
		{name: "from is inclusive", day: day(2026, 4, 6), want: true},
		{name: "to is inclusive", day: day(2026, 4, 10), want: true},
		{name: "before", day: day(2026, 4, 5), want: false},
		{name: "after", day: day(2026, 4, 11), want: false},
		{name: "time of day is ignored", day: time.Date(2026, 4, 10, 23, 59, 0, 0, time.UTC), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.day))
		})
	}
}

func TestApplyLeaveOverridesEverything(t *testing.T) {
	approved := []DateRange{{From: day(2026, 4, 6), To: day(2026, 4, 7)}}

	for _, status := range []Status{StatusPresent, StatusLate, StatusAbsent} {
		assert.Equal(t, StatusOnLeave, ApplyLeave(status, day(2026, 4, 6), approved))
	}
}

func TestApplyLeaveOutsideRangeKeepsStatus(t *testing.T) {
	approved := []DateRange{{From: day(2026, 4, 6), To: day(2026, 4, 7)}}

	assert.Equal(t, StatusLate, ApplyLeave(StatusLate, day(2026, 4, 8), approved))
	assert.Equal(t, StatusAbsent, ApplyLeave(StatusAbsent, day(2026, 4, 8), nil))
}
