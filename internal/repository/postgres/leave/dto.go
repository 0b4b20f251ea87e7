package leave

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Filter struct {
	Limit     *int
	Offset    *int
	Page      *int
	StudentID *int
	Status    *string
}

type GetListResponse struct {
	ID          int        `json:"id"`
	StudentID   *int       `json:"student_id"`
	StudentCode *string    `json:"student_code"`
	StudentName *string    `json:"student_name"`
	DateFrom    *date.Date `json:"date_from"`
	DateTo      *date.Date `json:"date_to"`
	Reason      *string    `json:"reason"`
	Status      *string    `json:"status"`
	DecidedBy   *int       `json:"decided_by"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type CreateRequest struct {
	StudentID *int    `json:"student_id" form:"student_id"`
	DateFrom  *string `json:"date_from" form:"date_from"`
	DateTo    *string `json:"date_to" form:"date_to"`
	Reason    *string `json:"reason" form:"reason"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:leave_request"`

	ID        int       `json:"id" bun:"-"`
	StudentID *int      `json:"student_id" bun:"student_id"`
	DateFrom  string    `json:"date_from" bun:"date_from"`
	DateTo    string    `json:"date_to" bun:"date_to"`
	Reason    *string   `json:"reason" bun:"reason"`
	Status    string    `json:"status" bun:"status"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type DecideRequest struct {
	ID      int     `json:"id" form:"id"`
	Approve *bool   `json:"approve" form:"approve"`
	Reason  *string `json:"reason" form:"reason"`
}
