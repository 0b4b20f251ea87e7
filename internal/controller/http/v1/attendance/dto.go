package attendance

import "time"

// ScanRequest is the payload sent by the badge scanner terminals.
type ScanRequest struct {
	StudentCode string     `json:"student_code" form:"student_code"`
	SubjectID   *int       `json:"subject_id" form:"subject_id"`
	Instant     *time.Time `json:"instant" form:"instant"`
}
