package entity

import (
	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students"`

	BasicEntity
	StudentCode  *string `json:"student_code"   bun:"student_code"`
	FirstName    *string `json:"first_name"     bun:"first_name"`
	LastName     *string `json:"last_name"      bun:"last_name"`
	ClassGroupID *int    `json:"class_group_id" bun:"class_group_id"`
	Phone        *string `json:"phone"          bun:"phone"`
}
