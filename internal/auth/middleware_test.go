package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/observability"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

type stubUsers struct {
	users map[int64]*domain.User
	err   error
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func newGuardApp(guard *SessionGuard) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message, "code": de.Code})
		},
	})
	app.Get("/protected", guard.Handle, func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return errors.New("no session")
		}
		return c.JSON(fiber.Map{"userId": session.Identity.ID, "isAdmin": session.IsAdmin})
	})
	return app
}

func accessCookie(token string) *http.Cookie {
	return &http.Cookie{Name: AccessCookieName, Value: url.PathEscape(BearerValue(token))}
}

func doRequest(t *testing.T, app *fiber.App, cookie *http.Cookie) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func clearedCookie(resp *http.Response, name string) bool {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value == "" && c.Expires.Before(time.Now()) {
			return true
		}
	}
	return false
}

func TestSessionGuard(t *testing.T) {
	users := &stubUsers{users: map[int64]*domain.User{
		1: {ID: 1, Role: domain.RoleUser},
		2: {ID: 2, Role: domain.RoleAdmin},
	}}
	svc := newTestTokenService(t, nil, t0)
	expiredSvc := newTestTokenService(t, nil, t0.Add(-13*time.Hour))

	valid, _, err := svc.Issue(context.Background(), 1, domain.ClientMeta{})
	require.NoError(t, err)
	ghost, _, err := svc.Issue(context.Background(), 99, domain.ClientMeta{})
	require.NoError(t, err)
	expired, _, err := expiredSvc.Issue(context.Background(), 1, domain.ClientMeta{})
	require.NoError(t, err)

	cases := []struct {
		name    string
		cookie  *http.Cookie
		code    string
		message string
	}{
		{"missing", nil, apperrors.CodeMissingCredential, "authorization token does not exist"},
		{"wrong scheme", &http.Cookie{Name: AccessCookieName, Value: url.PathEscape("Token " + valid.Token)}, apperrors.CodeMalformedCredential, "authorization token type mismatch"},
		{"no token", &http.Cookie{Name: AccessCookieName, Value: "Bearer"}, apperrors.CodeMalformedCredential, "authorization token type mismatch"},
		{"expired", accessCookie(expired.Token), apperrors.CodeCredentialExpired, "authorization token has expired"},
		{"tampered", accessCookie(valid.Token + "x"), apperrors.CodeCredentialInvalid, "authorization token has been tampered with"},
		{"garbage", accessCookie("abc"), apperrors.CodeCredentialInvalid, "authorization token has been tampered with"},
		{"unknown subject", accessCookie(ghost.Token), apperrors.CodeSubjectNotFound, "token user does not exist"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metrics := observability.NewMetrics("test")
			app := newGuardApp(NewSessionGuard(svc, users, metrics))

			resp, body := doRequest(t, app, tc.cookie)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var got errorBody
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.message, got.Message)
			assert.True(t, clearedCookie(resp, AccessCookieName), "access cookie should be cleared")
		})
	}
}

func TestSessionGuardAttachesSession(t *testing.T) {
	users := &stubUsers{users: map[int64]*domain.User{2: {ID: 2, Role: domain.RoleAdmin}}}
	svc := newTestTokenService(t, nil, time.Now())
	access, _, err := svc.Issue(context.Background(), 2, domain.ClientMeta{})
	require.NoError(t, err)

	app := newGuardApp(NewSessionGuard(svc, users, nil))
	resp, body := doRequest(t, app, accessCookie(access.Token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		UserID  int64 `json:"userId"`
		IsAdmin bool  `json:"isAdmin"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(2), got.UserID)
	assert.True(t, got.IsAdmin)
	assert.False(t, clearedCookie(resp, AccessCookieName))
}

func TestSessionGuardDataLayerErrorKeepsCookie(t *testing.T) {
	svc := newTestTokenService(t, nil, time.Now())
	access, _, err := svc.Issue(context.Background(), 1, domain.ClientMeta{})
	require.NoError(t, err)

	app := newGuardApp(NewSessionGuard(svc, &stubUsers{err: errors.New("db down")}, nil))
	resp, _ := doRequest(t, app, accessCookie(access.Token))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, clearedCookie(resp, AccessCookieName))
}

func TestRefreshGuard(t *testing.T) {
	svc := newTestTokenService(t, nil, time.Now())
	access, refresh, err := svc.Issue(context.Background(), 1, domain.ClientMeta{})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message, "code": de.Code})
		},
	})
	app.Post("/refresh", NewRefreshGuard(svc, nil).Handle, func(c *fiber.Ctx) error {
		token, ok := RefreshTokenFromContext(c)
		if !ok {
			return errors.New("no token")
		}
		return c.SendString(token)
	})

	send := func(cookie *http.Cookie) (*http.Response, string) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	resp, body := send(&http.Cookie{Name: RefreshCookieName, Value: url.PathEscape(BearerValue(refresh.Token))})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, refresh.Token, body)

	resp, body = send(&http.Cookie{Name: RefreshCookieName, Value: url.PathEscape(BearerValue(access.Token))})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "refresh token has been tampered with")
	assert.True(t, clearedCookie(resp, RefreshCookieName))

	resp, body = send(nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, apperrors.CodeMissingCredential)
}

func TestParseBearer(t *testing.T) {
	token, err := ParseBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ParseBearer("Bearer%20abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ParseBearer("")
	assert.ErrorIs(t, err, ErrMissingCredential)

	for _, raw := range []string{"bearer abc", "Basic abc", "Bearer", "Bearer   ", "abc", "Bearer a b", "Bearer%20a%20b", "Bearer a\tb"} {
		_, err = ParseBearer(raw)
		assert.ErrorIs(t, err, ErrMalformedCredential, raw)
	}
}
