package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/dto"
	"github.com/spec-kit/resume-service/internal/service"
)

// CommentsHandler manages comments nested under resumes.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// Create handles POST /api/resumes/:resumeId/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.UserContext(), session, resumeID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// List handles GET /api/resumes/:resumeId/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.UserContext(), resumeID)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update handles PATCH /api/resumes/:resumeId/comments/:commentId.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.UserContext(), session, resumeID, commentID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

// Delete handles DELETE /api/resumes/:resumeId/comments/:commentId.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	resumeID, err := paramID(c, "resumeId")
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), session, resumeID, commentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "comment deleted", "data": fiber.Map{"commentId": commentID}})
}
