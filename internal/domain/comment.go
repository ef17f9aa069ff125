package domain

import "time"

// Comment is a note left on a resume.
type Comment struct {
	ID        int64
	ResumeID  int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
