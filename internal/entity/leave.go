package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// LeaveRequest covers the inclusive [DateFrom, DateTo] range. Only approved
// requests participate in attendance status overrides.
type LeaveRequest struct {
	bun.BaseModel `bun:"table:leave_request"`

	BasicEntity
	StudentID *int       `json:"student_id" bun:"student_id"`
	DateFrom  *string    `json:"date_from"  bun:"date_from"`
	DateTo    *string    `json:"date_to"    bun:"date_to"`
	Reason    *string    `json:"reason"     bun:"reason"`
	Status    *string    `json:"status"     bun:"status"`
	DecidedAt *time.Time `json:"decided_at" bun:"decided_at"`
	DecidedBy *int       `json:"decided_by" bun:"decided_by"`
}
