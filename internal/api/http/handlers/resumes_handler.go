package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/dto"
	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/service"
	"github.com/spec-kit/resume-service/pkg/util/validation"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

// ResumesHandler manages resume endpoints.
type ResumesHandler struct {
	resumes *service.ResumeService
}

// NewResumesHandler constructs handler.
func NewResumesHandler(resumeService *service.ResumeService) *ResumesHandler {
	return &ResumesHandler{resumes: resumeService}
}

// Create handles POST /api/resumes.
func (h *ResumesHandler) Create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateResumeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resume, err := h.resumes.Create(c.UserContext(), session, service.ResumeCreateInput{
		Status: req.Status,
		Title:  req.Title,
		Intro:  req.Intro,
		Exp:    req.Exp,
		Skill:  req.Skill,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resumeResponse(resume)})
}

// List handles GET /api/resumes.
func (h *ResumesHandler) List(c *fiber.Ctx) error {
	resumes, err := h.resumes.List(c.UserContext(), c.Query("orderKey"), c.Query("orderValue"))
	if err != nil {
		return err
	}
	items := make([]dto.ResumeResponse, 0, len(resumes))
	for i := range resumes {
		items = append(items, resumeResponse(&resumes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/resumes/:resumeId.
func (h *ResumesHandler) Get(c *fiber.Ctx) error {
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	resume, err := h.resumes.Get(c.UserContext(), resumeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resumeResponse(resume)})
}

// Update handles PATCH /api/resumes/:resumeId. Every submitted key is passed
// to the policy, including keys that are not resume attributes.
func (h *ResumesHandler) Update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	input, err := decodeResumeUpdate(c.Body())
	if err != nil {
		return err
	}
	resume, err := h.resumes.Update(c.UserContext(), session, resumeID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resumeResponse(resume)})
}

// Delete handles DELETE /api/resumes/:resumeId.
func (h *ResumesHandler) Delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	if err := h.resumes.Delete(c.UserContext(), session, resumeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "resume deleted", "data": fiber.Map{"resumeId": resumeID}})
}

func decodeResumeUpdate(body []byte) (service.ResumeUpdateInput, error) {
	var input service.ResumeUpdateInput
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return input, apperrors.NewValidationError("invalid payload", nil)
	}

	var req dto.UpdateResumeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return input, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(&req); err != nil {
		return input, err
	}

	for key, value := range raw {
		switch key {
		case auth.FieldStatus, auth.FieldTitle, auth.FieldIntro, auth.FieldExp, auth.FieldSkill:
			if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
				input.Nulls = append(input.Nulls, key)
			}
		default:
			input.Other = append(input.Other, key)
		}
	}
	sort.Strings(input.Nulls)
	sort.Strings(input.Other)
	input.Status = req.Status
	input.Title = req.Title
	input.Intro = req.Intro
	input.Exp = req.Exp
	input.Skill = req.Skill
	return input, nil
}
