package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 4, 6, hour, min, 0, 0, time.UTC)
}

func TestNewIndexDefaultsSessionEnd(t *testing.T) {
	idx := NewIndex([]Session{
		{SubjectID: 1, Name: "Math", Start: at(9, 0)},
	})

	sessions := idx.Sessions()
	assert.Len(t, sessions, 1)
	assert.Equal(t, at(10, 0), sessions[0].End)
}

func TestNewIndexOrdersByStart(t *testing.T) {
	idx := NewIndex([]Session{
		{SubjectID: 2, Start: at(11, 0), End: at(12, 0)},
		{SubjectID: 1, Start: at(9, 0), End: at(10, 0)},
		{SubjectID: 3, Start: at(13, 0), End: at(14, 0)},
	})

	var ids []int
	for _, s := range idx.Sessions() {
		ids = append(ids, s.SubjectID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestActiveAt(t *testing.T) {
	idx := NewIndex([]Session{
		{SubjectID: 1, Name: "Math", Start: at(9, 0), End: at(10, 0)},
		{SubjectID: 2, Name: "Physics", Start: at(11, 0), End: at(12, 0)},
	})

	tests := []struct {
		name      string
		instant   time.Time
		wantID    int
		wantFound bool
	}{
		{name: "inside window", instant: at(9, 30), wantID: 1, wantFound: true},
		{name: "start is inclusive", instant: at(9, 0), wantID: 1, wantFound: true},
		{name: "end is inclusive", instant: at(10, 0), wantID: 1, wantFound: true},
		{name: "between windows", instant: at(10, 30), wantFound: false},
		{name: "before the day starts", instant: at(8, 0), wantFound: false},
		{name: "second window", instant: at(11, 45), wantID: 2, wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, found := idx.ActiveAt(tt.instant)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantID, session.SubjectID)
			}
		})
	}
}

func TestActiveAtOverlapFirstStartWins(t *testing.T) {
	idx := NewIndex([]Session{
		{SubjectID: 2, Start: at(9, 30), End: at(10, 30)},
		{SubjectID: 1, Start: at(9, 0), End: at(10, 0)},
	})

	session, found := idx.ActiveAt(at(9, 45))
	assert.True(t, found)
	assert.Equal(t, 1, session.SubjectID)
}
