package events

import (
	"time"

	"github.com/spec-kit/resume-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventResumeCreated       EventType = "resume_created"
	EventResumeStatusChanged EventType = "resume_status_changed"
	EventCommentAdded        EventType = "comment_added"
	EventUserSignedIn        EventType = "user_signed_in"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID int64       `json:"resource_id"`
	ActorID    int64       `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ResumeCreatedPayload payload.
type ResumeCreatedPayload struct {
	Title  string              `json:"title"`
	Status domain.ResumeStatus `json:"status"`
}

// ResumeStatusChangedPayload payload.
type ResumeStatusChangedPayload struct {
	OwnerID   int64               `json:"owner_id"`
	OldStatus domain.ResumeStatus `json:"old_status"`
	NewStatus domain.ResumeStatus `json:"new_status"`
	ByAdmin   bool                `json:"by_admin"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   int64  `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// UserSignedInPayload payload.
type UserSignedInPayload struct {
	Method    string `json:"method"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}
