package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorst(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "late beats present", statuses: []Status{StatusPresent, StatusLate}, want: StatusLate},
		{name: "absent beats late", statuses: []Status{StatusLate, StatusAbsent, StatusPresent}, want: StatusAbsent},
		{name: "on-leave beats present", statuses: []Status{StatusPresent, StatusOnLeave}, want: StatusOnLeave},
		{name: "single status", statuses: []Status{StatusPresent}, want: StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Worst(tt.statuses))
		})
	}
}

func TestAggregateDayFoldsWorstStatus(t *testing.T) {
	records := []DayRecord{
		{Status: StatusPresent},
		{Status: StatusLate, LatenessMinutes: 12},
	}

	got, ok := AggregateDay(1, day(2026, 4, 6), records, nil)
	assert.True(t, ok)
	assert.Equal(t, StatusLate, got.Status)
	assert.Equal(t, 12, got.LatenessMinutes)
}

func TestAggregateDaySumsLateness(t *testing.T) {
	records := []DayRecord{
		{Status: StatusLate, LatenessMinutes: 10},
		{Status: StatusLate, LatenessMinutes: 20},
	}

	got, ok := AggregateDay(1, day(2026, 4, 6), records, nil)
	assert.True(t, ok)
	assert.Equal(t, StatusLate, got.Status)
	assert.Equal(t, 30, got.LatenessMinutes)
}

func TestAggregateDayAbsentZeroesLateness(t *testing.T) {
	records := []DayRecord{
		{Status: StatusLate, LatenessMinutes: 25},
		{Status: StatusAbsent},
	}

	got, ok := AggregateDay(1, day(2026, 4, 6), records, nil)
	assert.True(t, ok)
	assert.Equal(t, StatusAbsent, got.Status)
	assert.Zero(t, got.LatenessMinutes)
}

func TestAggregateDayLeaveWins(t *testing.T) {
	records := []DayRecord{
		{Status: StatusLate, LatenessMinutes: 40},
	}
	approved := []DateRange{{From: day(2026, 4, 6), To: day(2026, 4, 6)}}

	got, ok := AggregateDay(1, day(2026, 4, 6), records, approved)
	assert.True(t, ok)
	assert.Equal(t, StatusOnLeave, got.Status)
	assert.Zero(t, got.LatenessMinutes)
}

// A day without records is not absent. Absence is an explicit mark, so the
// fold reports "no data" instead of inventing one.
func TestAggregateDayEmptyIsNotAbsent(t *testing.T) {
	_, ok := AggregateDay(1, day(2026, 4, 6), nil, nil)
	assert.False(t, ok)
}

func TestAggregateDayEmptyWithLeaveIsOnLeave(t *testing.T) {
	approved := []DateRange{{From: day(2026, 4, 1), To: day(2026, 4, 30)}}

	got, ok := AggregateDay(1, day(2026, 4, 6), nil, approved)
	assert.True(t, ok)
	assert.Equal(t, StatusOnLeave, got.Status)
}
