package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type ClassGroup struct {
	bun.BaseModel `bun:"table:class_group"`

	BasicEntity
	Name *string `json:"name" bun:"name"`
}

// Subject is one time-boxed teaching session on a concrete day. EndsAt may
// be null, in which case the session is treated as one hour long.
type Subject struct {
	bun.BaseModel `bun:"table:subjects"`

	BasicEntity
	Name         *string    `json:"name"           bun:"name"`
	ClassGroupID *int       `json:"class_group_id" bun:"class_group_id"`
	StartsAt     *time.Time `json:"starts_at"      bun:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"        bun:"ends_at"`
}
