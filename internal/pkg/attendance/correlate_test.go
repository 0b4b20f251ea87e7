package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideSubjectEvents(t *testing.T) {
	tests := []struct {
		name    string
		keyed   RecordState
		want    Action
		wantErr error
	}{
		{name: "no record opens", keyed: StateNone, want: ActionOpen},
		{name: "open record closes", keyed: StateOpen, want: ActionCloseKeyed},
		{name: "closed record rejects", keyed: StateClosed, wantErr: ErrAlreadyClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(true, tt.keyed, false)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideGateEvents(t *testing.T) {
	tests := []struct {
		name       string
		keyed      RecordState
		dayHasOpen bool
		want       Action
		wantErr    error
	}{
		{name: "fresh day opens", keyed: StateNone, want: ActionOpen},
		{name: "open subject closes latest", keyed: StateNone, dayHasOpen: true, want: ActionCloseLatest},
		{name: "own open record closes latest", keyed: StateOpen, dayHasOpen: true, want: ActionCloseLatest},
		{name: "closed day rejects", keyed: StateClosed, wantErr: ErrAlreadyClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(false, tt.keyed, tt.dayHasOpen)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A gate check-out while a subject record is still open must close that
// record, not start a second one.
func TestDecideGateFallsBackToOpenSubject(t *testing.T) {
	// subject scan opened a record earlier in the day
	action, err := Decide(true, StateNone, false)
	assert.NoError(t, err)
	assert.Equal(t, ActionOpen, action)

	// the evening gate scan arrives with no gate record of its own
	action, err = Decide(false, StateNone, true)
	assert.NoError(t, err)
	assert.Equal(t, ActionCloseLatest, action)
}

func TestKeyString(t *testing.T) {
	subjectID := 7

	assert.Equal(t, "5/2026-04-06/7", Key{StudentID: 5, WorkDay: "2026-04-06", SubjectID: &subjectID}.String())
	assert.Equal(t, "5/2026-04-06/gate", Key{StudentID: 5, WorkDay: "2026-04-06"}.String())
}
