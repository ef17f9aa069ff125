package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/observability"
)

// Cookie names carrying credentials.
const (
	AccessCookieName  = "authorization"
	RefreshCookieName = "refreshToken"

	bearerScheme    = "Bearer"
	sessionKey      = "auth_session"
	refreshTokenKey = "auth_refresh_token"
)

// ResolvedSession binds a validated credential to its identity for one request.
type ResolvedSession struct {
	Identity *domain.User
	IsAdmin  bool
}

// AccessVerifier validates access tokens.
type AccessVerifier interface {
	VerifyAccess(token string) (int64, error)
}

// IdentityLookup resolves a token subject to a stored identity.
type IdentityLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SessionGuard validates the access cookie and loads the caller identity.
type SessionGuard struct {
	tokens       AccessVerifier
	users        IdentityLookup
	metrics      *observability.Metrics
	cookieDomain string
}

// NewSessionGuard constructs the guard. metrics may be nil.
func NewSessionGuard(tokens AccessVerifier, users IdentityLookup, metrics *observability.Metrics) *SessionGuard {
	return &SessionGuard{tokens: tokens, users: users, metrics: metrics}
}

// WithCookieDomain sets the domain used when clearing the access cookie.
func (g *SessionGuard) WithCookieDomain(domain string) *SessionGuard {
	g.cookieDomain = domain
	return g
}

// Handle enforces authentication for protected routes. Every credential
// failure clears the access cookie so the client has to sign in again.
func (g *SessionGuard) Handle(c *fiber.Ctx) error {
	session, err := g.resolve(c)
	if err != nil {
		if IsCredentialFailure(err) {
			ExpireCookies(c, g.cookieDomain, AccessCookieName)
			g.metrics.RecordAuthFailure(failureKind(err))
			return AccessFailure(err)
		}
		return err
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

func (g *SessionGuard) resolve(c *fiber.Ctx) (*ResolvedSession, error) {
	token, err := ParseBearer(c.Cookies(AccessCookieName))
	if err != nil {
		return nil, err
	}

	subjectID, err := g.tokens.VerifyAccess(token)
	if err != nil {
		if errors.Is(err, ErrCredentialExpired) || errors.Is(err, ErrCredentialInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}

	user, err := g.users.GetByID(c.UserContext(), subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	return &ResolvedSession{Identity: user, IsAdmin: user.IsAdmin()}, nil
}

// RefreshVerifier validates refresh tokens.
type RefreshVerifier interface {
	VerifyRefresh(token string) (int64, error)
}

// RefreshGuard validates the refresh cookie for the token refresh endpoint.
type RefreshGuard struct {
	tokens       RefreshVerifier
	metrics      *observability.Metrics
	cookieDomain string
}

// NewRefreshGuard constructs the guard. metrics may be nil.
func NewRefreshGuard(tokens RefreshVerifier, metrics *observability.Metrics) *RefreshGuard {
	return &RefreshGuard{tokens: tokens, metrics: metrics}
}

// WithCookieDomain sets the domain used when clearing the refresh cookie.
func (g *RefreshGuard) WithCookieDomain(domain string) *RefreshGuard {
	g.cookieDomain = domain
	return g
}

// Handle rejects requests without a usable refresh cookie and clears it.
func (g *RefreshGuard) Handle(c *fiber.Ctx) error {
	token, err := ParseBearer(c.Cookies(RefreshCookieName))
	if err == nil {
		_, err = g.tokens.VerifyRefresh(token)
	}
	if err != nil {
		if IsCredentialFailure(err) {
			ExpireCookies(c, g.cookieDomain, RefreshCookieName)
			g.metrics.RecordAuthFailure("refresh_" + failureKind(err))
			return RefreshFailure(err)
		}
		return err
	}

	c.Locals(refreshTokenKey, token)
	return c.Next()
}

// RefreshTokenFromContext returns the refresh token accepted by RefreshGuard.
func RefreshTokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(refreshTokenKey).(string)
	return token, ok && token != ""
}

// ParseBearer extracts the token from a `Bearer <token>` credential. Values
// percent-encoded by the client are decoded first. A token containing
// whitespace is malformed.
func ParseBearer(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingCredential
	}
	if strings.Contains(raw, "%") {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	}

	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", ErrMalformedCredential
	}
	token := strings.Fields(parts[1])
	if len(token) != 1 {
		return "", ErrMalformedCredential
	}
	return token[0], nil
}

// ExpireCookies instructs the client to drop the named credential cookies.
func ExpireCookies(c *fiber.Ctx, domain string, names ...string) {
	for _, name := range names {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   domain,
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
	}
}

// BearerValue formats a token for cookie transport.
func BearerValue(token string) string {
	return bearerScheme + " " + token
}

// SessionFromContext retrieves the session attached by the guard.
func SessionFromContext(c *fiber.Ctx) (*ResolvedSession, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*ResolvedSession)
	return session, ok && session != nil && session.Identity != nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing"
	case errors.Is(err, ErrMalformedCredential):
		return "malformed"
	case errors.Is(err, ErrCredentialExpired):
		return "expired"
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found"
	default:
		return "invalid"
	}
}
