package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/events"
	"github.com/spec-kit/resume-service/internal/repository"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

const commentPreviewLength = 80

// CommentService manages comments nested under resumes.
type CommentService struct {
	comments   repository.CommentRepository
	resumes    repository.ResumeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentDependencies bundles requirements for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	ResumeRepo  repository.ResumeRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		resumes:    deps.ResumeRepo,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// Create adds a comment by the session user to an existing resume.
func (s *CommentService) Create(ctx context.Context, session *auth.ResolvedSession, resumeID int64, content string) (*domain.Comment, error) {
	if session == nil || session.Identity == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.resumes.GetByID(ctx, resumeID); err != nil {
		return nil, notFound(err, "resume")
	}

	comment := &domain.Comment{
		ResumeID: resumeID,
		UserID:   session.Identity.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventCommentAdded,
		ResourceID: resumeID,
		ActorID:    comment.UserID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Content),
		},
	})
	return comment, nil
}

// List returns the comments of a resume, newest first.
func (s *CommentService) List(ctx context.Context, resumeID int64) ([]domain.Comment, error) {
	if _, err := s.resumes.GetByID(ctx, resumeID); err != nil {
		return nil, notFound(err, "resume")
	}
	return s.comments.ListByResume(ctx, resumeID)
}

// Update changes the content of a comment owned by the session user.
func (s *CommentService) Update(ctx context.Context, session *auth.ResolvedSession, resumeID, commentID int64, content string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, resumeID, commentID)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	if err := auth.AuthorizeMutation(session, auth.ResourceComment, comment.UserID, []string{auth.FieldContent}); err != nil {
		return nil, auth.PolicyFailure(err)
	}
	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, notFound(err, "comment")
	}
	return comment, nil
}

// Delete removes a comment owned by the session user.
func (s *CommentService) Delete(ctx context.Context, session *auth.ResolvedSession, resumeID, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, resumeID, commentID)
	if err != nil {
		return notFound(err, "comment")
	}
	if err := auth.AuthorizeDelete(session, auth.ResourceComment, comment.UserID); err != nil {
		return auth.PolicyFailure(err)
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return notFound(err, "comment")
	}
	return nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewValidationError("content required", map[string]any{"content": "required"})
	}
	return content, nil
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= commentPreviewLength {
		return body
	}
	return string(runes[:commentPreviewLength]) + "..."
}
