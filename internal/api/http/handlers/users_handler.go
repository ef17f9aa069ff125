package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/dto"
	"github.com/spec-kit/resume-service/internal/service"
)

// UsersHandler exposes profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me handles GET /api/users.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	user, info, err := h.users.GetProfile(c.UserContext(), session.Identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user, info)})
}

// UpdateMe handles PATCH /api/users.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	info, err := h.users.UpdateProfile(c.UserContext(), session.Identity.ID, service.ProfileUpdateInput{
		Name:         req.Name,
		Age:          req.Age,
		Gender:       req.Gender,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "profile updated", "data": userResponse(session.Identity, info)})
}

// MyHistory handles GET /api/users/histories.
func (h *UsersHandler) MyHistory(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	items, err := h.users.ListHistory(c.UserContext(), session.Identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(items)})
}

// UserHistory handles GET /api/admin/users/:userId/histories.
func (h *UsersHandler) UserHistory(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	items, err := h.users.ListHistory(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(items)})
}
