package subject

import (
	"time"
)

type Filter struct {
	Limit        *int
	Offset       *int
	Page         *int
	Search       *string
	ClassGroupID *int
	Date         *string
}

type GetListResponse struct {
	ID           int        `json:"id"`
	Name         *string    `json:"name"`
	ClassGroupID *int       `json:"class_group_id"`
	ClassGroup   *string    `json:"class_group"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}

type GetDetailByIdResponse struct {
	ID           int        `json:"id"`
	Name         *string    `json:"name"`
	ClassGroupID *int       `json:"class_group_id"`
	ClassGroup   *string    `json:"class_group"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}
