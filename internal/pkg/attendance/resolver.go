package attendance

import (
	"time"

	"github.com/pkg/errors"
)

// ErrCheckOutBeforeCheckIn reports a check-out instant earlier than the
// check-in. The duration is clamped to zero; the error is a warning for the
// caller, not a failure.
var ErrCheckOutBeforeCheckIn = errors.New("check-out is earlier than check-in")

// Resolver computes statuses and durations from check events. Grace is the
// lateness a check-in may have and still count as present; the default of
// zero means any positive offset is late.
type Resolver struct {
	Grace time.Duration
}

// CheckInResult is the computed outcome of one check-in event.
type CheckInResult struct {
	Status          Status
	LatenessMinutes int
}

// ResolveCheckIn computes the status of a check-in against the matched
// subject's scheduled start. A nil scheduledStart means a gate check-in,
// which is always present with zero lateness. Early arrival earns no bonus:
// lateness never goes below zero.
func (r Resolver) ResolveCheckIn(scheduledStart *time.Time, checkIn time.Time) CheckInResult {
	if scheduledStart == nil {
		return CheckInResult{Status: StatusPresent}
	}

	late := checkIn.Sub(*scheduledStart)
	if late <= r.Grace {
		return CheckInResult{Status: StatusPresent}
	}

	return CheckInResult{
		Status:          StatusLate,
		LatenessMinutes: int(late.Minutes()),
	}
}

// ResolveDuration computes the worked minutes between a check-in and a
// check-out. A check-out before the check-in is a data error: the duration
// clamps to zero and ErrCheckOutBeforeCheckIn is returned as a warning.
func (r Resolver) ResolveDuration(checkIn, checkOut time.Time) (int, error) {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return 0, ErrCheckOutBeforeCheckIn
	}
	return int(d.Minutes()), nil
}
