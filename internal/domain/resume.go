package domain

import "time"

// ResumeStatus enumerates hiring pipeline states for a resume.
type ResumeStatus string

const (
	ResumeStatusApply      ResumeStatus = "APPLY"
	ResumeStatusDrop       ResumeStatus = "DROP"
	ResumeStatusPass       ResumeStatus = "PASS"
	ResumeStatusInterview1 ResumeStatus = "INTERVIEW1"
	ResumeStatusInterview2 ResumeStatus = "INTERVIEW2"
	ResumeStatusFinalPass  ResumeStatus = "FINAL_PASS"
)

// ResumeStatuses lists every accepted status.
var ResumeStatuses = []ResumeStatus{
	ResumeStatusApply,
	ResumeStatusDrop,
	ResumeStatusPass,
	ResumeStatusInterview1,
	ResumeStatusInterview2,
	ResumeStatusFinalPass,
}

// Valid checks set membership only; any status may follow any other.
func (s ResumeStatus) Valid() bool {
	for _, candidate := range ResumeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Resume is a job application owned by a user.
type Resume struct {
	ID         int64
	UserID     int64
	UserInfoID *int64
	Status     ResumeStatus
	Title      string
	Intro      string
	Exp        string
	Skill      string
	Owner      *ResumeOwner
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ResumeOwner is the profile summary shown alongside a resume.
type ResumeOwner struct {
	Name         *string
	Age          *int
	Gender       *string
	ProfileImage *string
}
