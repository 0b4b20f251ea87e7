package attendance

import (
	"sort"
	"time"
)

// DefaultSessionLength is assumed when a session has no scheduled end.
const DefaultSessionLength = time.Hour

// Session is one scheduled subject window on a single day.
type Session struct {
	SubjectID int
	Name      string
	Start     time.Time
	End       time.Time
}

// Index answers schedule questions for one calendar day.
type Index struct {
	sessions []Session
}

// NewIndex builds an index over the day's sessions. Sessions with a zero
// end get the default one hour length. The sessions are kept in start order;
// the sort is stable so equal starts keep their input order and lookups stay
// deterministic on overlapping schedules.
func NewIndex(sessions []Session) *Index {
	normalized := make([]Session, len(sessions))
	copy(normalized, sessions)

	for i := range normalized {
		if normalized[i].End.IsZero() {
			normalized[i].End = normalized[i].Start.Add(DefaultSessionLength)
		}
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Start.Before(normalized[j].Start)
	})

	return &Index{sessions: normalized}
}

// ActiveAt returns the subject active at instant t, start and end inclusive.
// With overlapping windows the first match in start order wins. The second
// return value is false when no subject is active, which callers treat as a
// gate event rather than a failure.
func (x *Index) ActiveAt(t time.Time) (Session, bool) {
	for _, s := range x.sessions {
		if !t.Before(s.Start) && !t.After(s.End) {
			return s, true
		}
	}
	return Session{}, false
}

// Sessions returns the day's sessions ordered by scheduled start ascending.
func (x *Index) Sessions() []Session {
	return x.sessions
}
