package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/dto"
	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/pkg/util/validation"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

func requireSession(c *fiber.Ctx) (*auth.ResolvedSession, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return session, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validation.Struct(dst)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func userResponse(user *domain.User, info *domain.UserInfo) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:    user.ID,
		Email:     user.Email,
		ClientID:  user.ClientID,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if info != nil {
		resp.Name = info.Name
		resp.Age = info.Age
		resp.Gender = info.Gender
		resp.ProfileImage = info.ProfileImage
		resp.UpdatedAt = info.UpdatedAt
	}
	return resp
}

func historyResponses(items []domain.UserHistory) []dto.UserHistoryResponse {
	out := make([]dto.UserHistoryResponse, 0, len(items))
	for _, h := range items {
		out = append(out, dto.UserHistoryResponse{
			HistoryID:    h.ID,
			ChangedField: h.ChangedField,
			OldValue:     h.OldValue,
			NewValue:     h.NewValue,
			CreatedAt:    h.CreatedAt,
		})
	}
	return out
}

func resumeResponse(r *domain.Resume) dto.ResumeResponse {
	resp := dto.ResumeResponse{
		ResumeID:  r.ID,
		UserID:    r.UserID,
		Status:    string(r.Status),
		Title:     r.Title,
		Intro:     r.Intro,
		Exp:       r.Exp,
		Skill:     r.Skill,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Owner != nil {
		resp.Owner = &dto.ResumeOwnerResponse{
			Name:         r.Owner.Name,
			Age:          r.Owner.Age,
			Gender:       r.Owner.Gender,
			ProfileImage: r.Owner.ProfileImage,
		}
	}
	return resp
}

func commentResponse(cm *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		CommentID: cm.ID,
		ResumeID:  cm.ResumeID,
		UserID:    cm.UserID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}
