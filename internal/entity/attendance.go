package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AttendanceRecord is one check-in/check-out pair for a student on a work
// day. SubjectID is null for whole-day gate records. At most one record
// exists per (student, work day, subject), enforced by a unique index.
type AttendanceRecord struct {
	bun.BaseModel `bun:"table:attendance_record"`

	BasicEntity
	StudentID       *int       `json:"student_id"       bun:"student_id"`
	SubjectID       *int       `json:"subject_id"       bun:"subject_id"`
	WorkDay         *string    `json:"work_day"         bun:"work_day"`
	ComeTime        *time.Time `json:"come_time"        bun:"come_time"`
	LeaveTime       *time.Time `json:"leave_time"       bun:"leave_time"`
	Status          *string    `json:"status"           bun:"status"`
	LatenessMinutes *int       `json:"lateness_minutes" bun:"lateness_minutes"`
	WorkMinutes     *int       `json:"work_minutes"     bun:"work_minutes"`
	Note            *string    `json:"note"             bun:"note"`
}
