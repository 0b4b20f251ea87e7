package student

type Filter struct {
	Limit        *int
	Offset       *int
	Page         *int
	Search       *string
	ClassGroupID *int
}

type GetListResponse struct {
	ID           int     `json:"id"`
	StudentCode  *string `json:"student_code"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	ClassGroupID *int    `json:"class_group_id"`
	ClassGroup   *string `json:"class_group"`
	Phone        *string `json:"phone"`
}

// BadgeEntry is one row of the printable badge sheet.
type BadgeEntry struct {
	ID          int
	StudentCode string
	FullName    string
	ClassGroup  string
}
