package attendance

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAlreadyClosed is reported when an event arrives for a record that has
// already been checked out. The caller surfaces it as a duplicate scan.
var ErrAlreadyClosed = errors.New("attendance record is already closed")

// RecordState is the lifecycle position of one (student, day, subject)
// record.
type RecordState int

const (
	StateNone RecordState = iota
	StateOpen
	StateClosed
)

// Action is what an incoming event should do to the store.
type Action int

const (
	// ActionOpen creates a new record with the event instant as check-in.
	ActionOpen Action = iota
	// ActionCloseKeyed closes the record matching the event's exact key.
	ActionCloseKeyed
	// ActionCloseLatest closes the most recently opened record of the
	// student-day; used by gate scans acting as a whole-day checkout.
	ActionCloseLatest
)

// Key identifies one correlation state machine. SubjectID is nil for gate
// events. The key is also what the per-key lock is taken on.
type Key struct {
	StudentID int
	WorkDay   string
	SubjectID *int
}

func (k Key) String() string {
	if k.SubjectID == nil {
		return fmt.Sprintf("%d/%s/gate", k.StudentID, k.WorkDay)
	}
	return fmt.Sprintf("%d/%s/%d", k.StudentID, k.WorkDay, *k.SubjectID)
}

// Decide maps an incoming event onto an action given what is already stored
// for its key. keyed is the state of the record matching the event's exact
// key. dayHasOpen tells whether any record of the student-day is still open
// and is only consulted for gate events.
//
// Subject events walk NoRecord -> Open -> Closed. Gate events prefer closing
// whatever is still open for the day (the whole-day checkout of a physical
// gate reader) and only open a fresh daily record when nothing is.
func Decide(hasSubject bool, keyed RecordState, dayHasOpen bool) (Action, error) {
	if hasSubject {
		switch keyed {
		case StateNone:
			return ActionOpen, nil
		case StateOpen:
			return ActionCloseKeyed, nil
		default:
			return 0, ErrAlreadyClosed
		}
	}

	if dayHasOpen {
		return ActionCloseLatest, nil
	}

	switch keyed {
	case StateNone:
		return ActionOpen, nil
	case StateOpen:
		// dayHasOpen covers the gate record itself; reaching here means the
		// caller's snapshot is inconsistent, treat it as a keyed close.
		return ActionCloseKeyed, nil
	default:
		return 0, ErrAlreadyClosed
	}
}
