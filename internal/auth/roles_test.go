package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/resume-service/internal/domain"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

func sessionFor(id int64, role domain.Role) *ResolvedSession {
	user := &domain.User{ID: id, Role: role}
	return &ResolvedSession{Identity: user, IsAdmin: user.IsAdmin()}
}

func TestFieldAllowed(t *testing.T) {
	assert.True(t, FieldAllowed(domain.RoleUser, ResourceResume, FieldTitle))
	assert.True(t, FieldAllowed(domain.RoleUser, ResourceResume, FieldStatus))
	assert.True(t, FieldAllowed(domain.RoleUser, ResourceComment, FieldContent))
	assert.True(t, FieldAllowed(domain.RoleAdmin, ResourceResume, FieldStatus))

	assert.False(t, FieldAllowed(domain.RoleAdmin, ResourceResume, FieldTitle))
	assert.False(t, FieldAllowed(domain.RoleAdmin, ResourceComment, FieldContent))
	assert.False(t, FieldAllowed(domain.RoleUser, ResourceResume, "userId"))
	assert.False(t, FieldAllowed(domain.Role("guest"), ResourceResume, FieldStatus))
}

func TestAuthorizeMutation(t *testing.T) {
	owner := sessionFor(1, domain.RoleUser)
	stranger := sessionFor(2, domain.RoleUser)
	admin := sessionFor(3, domain.RoleAdmin)

	cases := []struct {
		name    string
		session *ResolvedSession
		ownerID int64
		fields  []string
		denied  []string
		allowed bool
	}{
		{"owner edits every field", owner, 1, []string{FieldStatus, FieldTitle, FieldIntro, FieldExp, FieldSkill}, nil, true},
		{"stranger edits title", stranger, 1, []string{FieldTitle}, nil, false},
		{"stranger edits status", stranger, 1, []string{FieldStatus}, nil, false},
		{"admin moves status", admin, 1, []string{FieldStatus}, nil, true},
		{"admin status and title", admin, 1, []string{FieldStatus, FieldTitle}, []string{FieldTitle}, false},
		{"admin on own resume", admin, 3, []string{FieldTitle}, []string{FieldTitle}, false},
		{"owner unknown field", owner, 1, []string{FieldTitle, "userId"}, []string{"userId"}, false},
		{"no session", nil, 1, []string{FieldTitle}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeMutation(tc.session, ResourceResume, tc.ownerID, tc.fields)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrForbidden)
			var forbidden *ForbiddenError
			require.True(t, errors.As(err, &forbidden))
			if tc.denied != nil {
				assert.Equal(t, tc.denied, forbidden.Fields)
			}
		})
	}
}

func TestAuthorizeMutationComment(t *testing.T) {
	assert.NoError(t, AuthorizeMutation(sessionFor(1, domain.RoleUser), ResourceComment, 1, []string{FieldContent}))
	assert.ErrorIs(t, AuthorizeMutation(sessionFor(9, domain.RoleAdmin), ResourceComment, 1, []string{FieldContent}), ErrForbidden)
}

func TestAuthorizeDeleteIsOwnerOnly(t *testing.T) {
	assert.NoError(t, AuthorizeDelete(sessionFor(1, domain.RoleUser), ResourceResume, 1))
	assert.ErrorIs(t, AuthorizeDelete(sessionFor(2, domain.RoleUser), ResourceResume, 1), ErrForbidden)
	assert.ErrorIs(t, AuthorizeDelete(sessionFor(3, domain.RoleAdmin), ResourceResume, 1), ErrForbidden)
	assert.ErrorIs(t, AuthorizeDelete(nil, ResourceComment, 1), ErrForbidden)
}

func TestPolicyFailureCarriesFields(t *testing.T) {
	err := PolicyFailure(&ForbiddenError{Reason: "nope", Fields: []string{FieldTitle}})
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, apperrors.CodeForbidden, de.Code)
	assert.Equal(t, []string{FieldTitle}, de.Details["fields"])
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRequireRole(t *testing.T) {
	build := func(session *ResolvedSession) *fiber.App {
		app := fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fe *fiber.Error
				if errors.As(err, &fe) {
					return c.SendStatus(fe.Code)
				}
				return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
			},
		})
		app.Get("/admin", func(c *fiber.Ctx) error {
			if session != nil {
				c.Locals(sessionKey, session)
			}
			return c.Next()
		}, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusNoContent)
		})
		return app
	}

	status := func(app *fiber.App) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, status(build(sessionFor(1, domain.RoleAdmin))))
	assert.Equal(t, http.StatusForbidden, status(build(sessionFor(2, domain.RoleUser))))
	assert.Equal(t, http.StatusUnauthorized, status(build(nil)))
}
