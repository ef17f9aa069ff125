package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/events"
	"github.com/spec-kit/resume-service/internal/repository"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

// ResumeService coordinates resume workflows.
type ResumeService struct {
	resumes    repository.ResumeRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ResumeDependencies bundles requirements for the resume service.
type ResumeDependencies struct {
	ResumeRepo repository.ResumeRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ResumeCreateInput describes resume creation payload.
type ResumeCreateInput struct {
	Status string
	Title  string
	Intro  string
	Exp    string
	Skill  string
}

// ResumeUpdateInput lists submitted fields; nil means not submitted. Nulls
// holds resume attributes submitted as JSON null and Other holds any submitted
// field names outside the resume's attributes.
type ResumeUpdateInput struct {
	Status *string
	Title  *string
	Intro  *string
	Exp    *string
	Skill  *string
	Nulls  []string
	Other  []string
}

// Fields returns the names of submitted fields.
func (in ResumeUpdateInput) Fields() []string {
	var fields []string
	if in.Status != nil {
		fields = append(fields, auth.FieldStatus)
	}
	if in.Title != nil {
		fields = append(fields, auth.FieldTitle)
	}
	if in.Intro != nil {
		fields = append(fields, auth.FieldIntro)
	}
	if in.Exp != nil {
		fields = append(fields, auth.FieldExp)
	}
	if in.Skill != nil {
		fields = append(fields, auth.FieldSkill)
	}
	fields = append(fields, in.Nulls...)
	return append(fields, in.Other...)
}

// NewResumeService constructs the service.
func NewResumeService(deps ResumeDependencies) *ResumeService {
	return &ResumeService{
		resumes:    deps.ResumeRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// Create stores a resume owned by the session user.
func (s *ResumeService) Create(ctx context.Context, session *auth.ResolvedSession, input ResumeCreateInput) (*domain.Resume, error) {
	if session == nil || session.Identity == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	status := domain.ResumeStatusApply
	if input.Status != "" {
		status = domain.ResumeStatus(input.Status)
	}
	if !status.Valid() {
		return nil, invalidStatus(input.Status)
	}

	resume := &domain.Resume{
		UserID: session.Identity.ID,
		Status: status,
		Title:  strings.TrimSpace(input.Title),
		Intro:  strings.TrimSpace(input.Intro),
		Exp:    strings.TrimSpace(input.Exp),
		Skill:  strings.TrimSpace(input.Skill),
	}
	info, err := s.users.GetInfo(ctx, session.Identity.ID)
	switch {
	case err == nil:
		resume.UserInfoID = &info.ID
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventResumeCreated,
		ResourceID: resume.ID,
		ActorID:    resume.UserID,
		Payload: events.ResumeCreatedPayload{
			Title:  resume.Title,
			Status: resume.Status,
		},
	})
	return resume, nil
}

// List returns every resume ordered by orderKey/orderValue. Empty values
// default to resumeId descending.
func (s *ResumeService) List(ctx context.Context, orderKey, orderValue string) ([]domain.Resume, error) {
	order := repository.ResumeOrder{Key: repository.OrderByResumeID, Desc: true}
	if orderKey != "" {
		order.Key = repository.ResumeOrderKey(orderKey)
		if !order.Key.Valid() {
			return nil, apperrors.NewValidationError("invalid orderKey", map[string]any{"orderKey": orderKey})
		}
	}
	if orderValue != "" {
		switch strings.ToLower(orderValue) {
		case "asc":
			order.Desc = false
		case "desc":
			order.Desc = true
		default:
			return nil, apperrors.NewValidationError("invalid orderValue", map[string]any{"orderValue": orderValue})
		}
	}
	return s.resumes.List(ctx, order)
}

// Get returns a resume by id.
func (s *ResumeService) Get(ctx context.Context, resumeID int64) (*domain.Resume, error) {
	resume, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return nil, notFound(err, "resume")
	}
	return resume, nil
}

// Update applies a policy-checked partial update. Nothing is persisted when
// any submitted field is not writable by the caller.
func (s *ResumeService) Update(ctx context.Context, session *auth.ResolvedSession, resumeID int64, input ResumeUpdateInput) (*domain.Resume, error) {
	resume, err := s.Get(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	fields := input.Fields()
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if err := auth.AuthorizeMutation(session, auth.ResourceResume, resume.UserID, fields); err != nil {
		return nil, auth.PolicyFailure(err)
	}
	if len(input.Nulls) > 0 {
		return nil, apperrors.NewValidationError("fields must not be null", map[string]any{"fields": input.Nulls})
	}

	oldStatus := resume.Status
	if input.Status != nil {
		status := domain.ResumeStatus(*input.Status)
		if !status.Valid() {
			return nil, invalidStatus(*input.Status)
		}
		resume.Status = status
	}
	if input.Title != nil {
		resume.Title = strings.TrimSpace(*input.Title)
	}
	if input.Intro != nil {
		resume.Intro = strings.TrimSpace(*input.Intro)
	}
	if input.Exp != nil {
		resume.Exp = strings.TrimSpace(*input.Exp)
	}
	if input.Skill != nil {
		resume.Skill = strings.TrimSpace(*input.Skill)
	}

	if err := s.resumes.Update(ctx, resume); err != nil {
		return nil, notFound(err, "resume")
	}
	if resume.Status != oldStatus {
		s.logger.Info("resume status changed",
			zap.Int64("resume_id", resume.ID),
			zap.Int64("actor_id", session.Identity.ID),
			zap.String("old_status", string(oldStatus)),
			zap.String("new_status", string(resume.Status)))
		publishEvent(ctx, s.dispatcher, s.logger, events.Event{
			Type:       events.EventResumeStatusChanged,
			ResourceID: resume.ID,
			ActorID:    session.Identity.ID,
			Payload: events.ResumeStatusChangedPayload{
				OwnerID:   resume.UserID,
				OldStatus: oldStatus,
				NewStatus: resume.Status,
				ByAdmin:   session.IsAdmin,
			},
		})
	}
	return resume, nil
}

// Delete removes a resume owned by the session user.
func (s *ResumeService) Delete(ctx context.Context, session *auth.ResolvedSession, resumeID int64) error {
	resume, err := s.Get(ctx, resumeID)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeDelete(session, auth.ResourceResume, resume.UserID); err != nil {
		return auth.PolicyFailure(err)
	}
	if err := s.resumes.Delete(ctx, resume.ID); err != nil {
		return notFound(err, "resume")
	}
	return nil
}

func invalidStatus(raw string) error {
	return apperrors.NewValidationError("invalid resume status", map[string]any{
		"status":  raw,
		"allowed": domain.ResumeStatuses,
	})
}
