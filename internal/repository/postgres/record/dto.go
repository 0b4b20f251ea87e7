package record

import (
	"time"

	"rollbook/backend/internal/pkg/attendance"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit        *int
	Offset       *int
	Page         *int
	Search       *string
	ClassGroupID *int
	SubjectID    *int
	Status       *string
	Date         *string
}

type GetListResponse struct {
	ID              int        `json:"id"`
	StudentID       *int       `json:"student_id"`
	StudentCode     *string    `json:"student_code"`
	StudentName     *string    `json:"student_name"`
	SubjectID       *int       `json:"subject_id"`
	SubjectName     *string    `json:"subject_name"`
	WorkDay         *date.Date `json:"work_day"`
	Status          *string    `json:"status"`
	LatenessMinutes *int       `json:"lateness_minutes"`
	WorkMinutes     *int       `json:"work_minutes"`
	ComeTime        *time.Time `json:"come_time,omitempty"`
	LeaveTime       *time.Time `json:"leave_time,omitempty"`
	Note            *string    `json:"note,omitempty"`
}

type GetDetailByIdResponse struct {
	ID              int        `json:"id"`
	StudentID       *int       `json:"student_id"`
	StudentCode     *string    `json:"student_code"`
	StudentName     *string    `json:"student_name"`
	SubjectID       *int       `json:"subject_id"`
	SubjectName     *string    `json:"subject_name"`
	WorkDay         *date.Date `json:"work_day"`
	Status          *string    `json:"status"`
	LatenessMinutes *int       `json:"lateness_minutes"`
	WorkMinutes     *int       `json:"work_minutes"`
	ComeTime        *time.Time `json:"come_time,omitempty"`
	LeaveTime       *time.Time `json:"leave_time,omitempty"`
	Note            *string    `json:"note,omitempty"`
	MarkedBy        *int       `json:"marked_by"`
}

// MarkEventRequest is the single entry point payload for scan, manual mark
// and gate events. Instant defaults to the current time; SubjectID forces a
// subject instead of resolving one from the schedule.
type MarkEventRequest struct {
	StudentID      *int       `json:"student_id" form:"student_id"`
	SubjectID      *int       `json:"subject_id" form:"subject_id"`
	Instant        *time.Time `json:"instant" form:"instant"`
	ExplicitStatus *string    `json:"status" form:"status"`
	Note           *string    `json:"note" form:"note"`
}

type MarkEventResponse struct {
	bun.BaseModel `bun:"table:attendance_record"`

	ID              int        `json:"id" bun:"-"`
	StudentID       *int       `json:"student_id" bun:"student_id"`
	SubjectID       *int       `json:"subject_id" bun:"subject_id"`
	WorkDay         string     `json:"work_day" bun:"work_day"`
	ComeTime        *time.Time `json:"come_time,omitempty" bun:"come_time"`
	LeaveTime       *time.Time `json:"leave_time,omitempty" bun:"leave_time"`
	Status          string     `json:"status" bun:"status"`
	LatenessMinutes int        `json:"lateness_minutes" bun:"lateness_minutes"`
	WorkMinutes     int        `json:"work_minutes" bun:"work_minutes"`
	Note            *string    `json:"note,omitempty" bun:"note"`
	Action          string     `json:"action" bun:"-"`
	Warning         string     `json:"warning,omitempty" bun:"-"`
	CreatedAt       time.Time  `json:"-" bun:"created_at"`
	CreatedBy       int        `json:"-" bun:"created_by"`
}

type BulkAbsentRequest struct {
	StudentIDs []int   `json:"student_ids" form:"student_ids"`
	Date       *string `json:"date" form:"date"`
	Note       *string `json:"note" form:"note"`
}

type BulkAbsentResult struct {
	StudentID int    `json:"student_id"`
	RecordID  int    `json:"record_id,omitempty"`
	Ok        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

type UpdateRequest struct {
	ID        int     `json:"id" form:"id"`
	ComeTime  string  `json:"come_time" form:"come_time"`
	LeaveTime string  `json:"leave_time" form:"leave_time"`
	Status    *string `json:"status" form:"status"`
	Note      *string `json:"note" form:"note"`
}

type DailyStatusResponse struct {
	StudentID       int        `json:"student_id"`
	Day             *date.Date `json:"day"`
	Status          string     `json:"status"`
	LatenessMinutes int        `json:"lateness_minutes"`
	RecordCount     int        `json:"record_count"`
}

type WeeklyDay struct {
	Day             *date.Date `json:"day"`
	Status          *string    `json:"status"`
	LatenessMinutes int        `json:"lateness_minutes"`
}

type WeeklySummaryResponse struct {
	StudentID        int         `json:"student_id"`
	WeekStart        *date.Date  `json:"week_start"`
	Days             []WeeklyDay `json:"days"`
	PresentDays      int         `json:"present_days"`
	LateDays         int         `json:"late_days"`
	AbsentDays       int         `json:"absent_days"`
	LeaveDays        int         `json:"leave_days"`
	TotalLateMinutes int         `json:"total_late_minutes"`
	AttendanceRate   float64     `json:"attendance_rate"`
}

type ReportFilter struct {
	From         date.Date
	To           date.Date
	MinLateCount *int
}

type LateReportRow struct {
	StudentID        int        `json:"student_id"`
	StudentCode      *string    `json:"student_code"`
	StudentName      *string    `json:"student_name"`
	LateCount        int        `json:"late_count"`
	TotalLateMinutes int        `json:"total_late_minutes"`
	LastLateDay      *date.Date `json:"last_late_day"`
}

type AbsentReportRow struct {
	StudentID      int         `json:"student_id"`
	StudentCode    *string     `json:"student_code"`
	StudentName    *string     `json:"student_name"`
	AbsentCount    int         `json:"absent_count"`
	AbsentDays     []date.Date `json:"absent_days"`
	LastAbsentDay  *date.Date  `json:"last_absent_day"`
	AttendanceRate float64     `json:"attendance_rate"`
}

// dayKey groups raw rows per student-day while building daily statuses.
type dayKey struct {
	studentID int
	day       string
}

type rawRow struct {
	studentID int
	day       string
	status    attendance.Status
	lateness  int
}
