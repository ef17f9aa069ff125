package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/dto"
	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/config"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/service"
)

// AuthHandler exposes sign-up, sign-in, refresh and sign-out endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies config.CookieConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// SignUp handles POST /api/sign-up.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, created, err := h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Email:           req.Email,
		ClientID:        req.ClientID,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Name:            req.Name,
		Age:             req.Age,
		Gender:          req.Gender,
		ProfileImage:    req.ProfileImage,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(fiber.Map{"message": "already registered", "data": fiber.Map{"userId": user.ID}})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "sign-up completed",
		"data":    fiber.Map{"userId": user.ID, "role": user.Role},
	})
}

// SignIn handles POST /api/sign-in and sets both credential cookies.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.SignIn(c.UserContext(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
		ClientID: req.ClientID,
		Client: domain.ClientMeta{
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		},
	})
	if err != nil {
		return err
	}

	h.setCredentialCookie(c, auth.AccessCookieName, result.Access.Token)
	h.setCredentialCookie(c, auth.RefreshCookieName, result.Refresh.Token)
	return c.JSON(dto.TokenResponse{
		Message:          "signed in",
		AccessExpiresAt:  result.Access.ExpiresAt,
		RefreshExpiresAt: &result.Refresh.ExpiresAt,
	})
}

// Refresh handles POST /api/token/refresh behind the refresh guard.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, ok := auth.RefreshTokenFromContext(c)
	if !ok {
		return auth.RefreshFailure(auth.ErrMissingCredential)
	}

	access, err := h.auth.RefreshAccess(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialInvalid) {
			auth.ExpireCookies(c, h.cookies.Domain, auth.RefreshCookieName)
		}
		return err
	}

	h.setCredentialCookie(c, auth.AccessCookieName, access.Token)
	return c.JSON(dto.TokenResponse{
		Message:         "access token reissued",
		AccessExpiresAt: access.ExpiresAt,
	})
}

// SignOut handles POST /api/sign-out. A presented refresh token is revoked;
// both cookies are cleared regardless.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if token, err := auth.ParseBearer(c.Cookies(auth.RefreshCookieName)); err == nil {
		if err := h.auth.SignOut(c.UserContext(), token); err != nil {
			return err
		}
	}
	auth.ExpireCookies(c, h.cookies.Domain, auth.AccessCookieName, auth.RefreshCookieName)
	return c.JSON(fiber.Map{"message": "signed out"})
}

// setCredentialCookie stores `Bearer <token>` percent-encoded, HttpOnly and
// without Expires so expiry is always judged by the token itself.
func (h *AuthHandler) setCredentialCookie(c *fiber.Ctx, name, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    url.PathEscape(auth.BearerValue(token)),
		Path:     "/",
		Domain:   h.cookies.Domain,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}
