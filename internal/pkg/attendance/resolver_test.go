package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveCheckIn(t *testing.T) {
	start := at(10, 0)

	tests := []struct {
		name         string
		grace        time.Duration
		checkIn      time.Time
		wantStatus   Status
		wantLateness int
	}{
		{name: "early arrival is present", checkIn: at(9, 55), wantStatus: StatusPresent},
		{name: "on the minute is present", checkIn: at(10, 0), wantStatus: StatusPresent},
		{name: "after start is late", checkIn: at(10, 15), wantStatus: StatusLate, wantLateness: 15},
		{name: "within grace is present", grace: 5 * time.Minute, checkIn: at(10, 5), wantStatus: StatusPresent},
		{name: "past grace is late", grace: 5 * time.Minute, checkIn: at(10, 6), wantStatus: StatusLate, wantLateness: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolver{Grace: tt.grace}
			got := r.ResolveCheckIn(&start, tt.checkIn)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantLateness, got.LatenessMinutes)
		})
	}
}

func TestResolveCheckInGateHasNoLateness(t *testing.T) {
	r := Resolver{}
	got := r.ResolveCheckIn(nil, at(14, 37))
	assert.Equal(t, StatusPresent, got.Status)
	assert.Zero(t, got.LatenessMinutes)
}

func TestResolveCheckInLatenessIsMonotonic(t *testing.T) {
	r := Resolver{}
	start := at(10, 0)

	prev := -1
	for _, checkIn := range []time.Time{at(9, 55), at(10, 0), at(10, 15), at(10, 40)} {
		got := r.ResolveCheckIn(&start, checkIn)
		assert.GreaterOrEqual(t, got.LatenessMinutes, prev)
		prev = got.LatenessMinutes
	}
}

func TestResolveDuration(t *testing.T) {
	r := Resolver{}

	minutes, err := r.ResolveDuration(at(9, 0), at(10, 30))
	assert.NoError(t, err)
	assert.Equal(t, 90, minutes)
}

func TestResolveDurationClampsNegative(t *testing.T) {
	r := Resolver{}

	minutes, err := r.ResolveDuration(at(10, 0), at(9, 0))
	assert.ErrorIs(t, err, ErrCheckOutBeforeCheckIn)
	assert.Zero(t, minutes)
}
