package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/resume-service/internal/config"
	"github.com/spec-kit/resume-service/internal/domain"
)

// AccessCredential is a short-lived token authorizing resource operations.
type AccessCredential struct {
	Token     string
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshCredential is a longer-lived token that can only mint access credentials.
type RefreshCredential struct {
	Token     string
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	Client    domain.ClientMeta
}

// Claims describes the JWT payload shared by both token kinds.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access and refresh tokens. Each kind has
// its own secret and lifetime; validity is decided by signature and expiry.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         RefreshStore
	now           func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService builds a token service from validated auth settings.
func NewTokenService(cfg config.AuthConfig, store RefreshStore, opts ...TokenOption) (*TokenService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = NewMemoryRefreshStore()
	}
	s := &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		store:         store,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a fresh access/refresh pair for subjectID and records the
// refresh token with the client metadata.
func (s *TokenService) Issue(ctx context.Context, subjectID int64, client domain.ClientMeta) (*AccessCredential, *RefreshCredential, error) {
	now := s.now()

	access, err := s.issueAccess(subjectID, now)
	if err != nil {
		return nil, nil, err
	}

	token, claims, err := sign(s.refreshSecret, subjectID, now, s.refreshTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}
	refresh := &RefreshCredential{
		Token:     token,
		SubjectID: subjectID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Client:    client,
	}

	record := RefreshRecord{
		SubjectID: subjectID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		IssuedAt:  refresh.IssuedAt,
		ExpiresAt: refresh.ExpiresAt,
	}
	if err := s.store.Save(ctx, refresh.Token, record); err != nil {
		return nil, nil, fmt.Errorf("record refresh token: %w", err)
	}
	return access, refresh, nil
}

// VerifyAccess returns the subject of a valid access token.
func (s *TokenService) VerifyAccess(token string) (int64, error) {
	claims, err := s.verify(s.accessSecret, token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// VerifyRefresh returns the subject of a valid refresh token.
func (s *TokenService) VerifyRefresh(token string) (int64, error) {
	claims, err := s.verify(s.refreshSecret, token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Refresh mints a new access credential for the refresh token's subject. The
// refresh token itself is not rotated. A record revoked in the store fails
// even while the signature and expiry are still good; a missing record does not.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*AccessCredential, error) {
	subjectID, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Lookup(ctx, refreshToken)
	switch {
	case errors.Is(err, ErrRefreshRecordNotFound):
	case err != nil:
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	case record.Revoked:
		return nil, fmt.Errorf("%w: refresh token revoked", ErrCredentialInvalid)
	case record.SubjectID != subjectID:
		return nil, fmt.Errorf("%w: refresh token subject mismatch", ErrCredentialInvalid)
	}

	return s.issueAccess(subjectID, s.now())
}

// Revoke marks a refresh token as unusable for future refreshes.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	return s.store.Revoke(ctx, refreshToken)
}

// Lookup exposes the audit record stored for a refresh token.
func (s *TokenService) Lookup(ctx context.Context, refreshToken string) (*RefreshRecord, error) {
	return s.store.Lookup(ctx, refreshToken)
}

func (s *TokenService) issueAccess(subjectID int64, now time.Time) (*AccessCredential, error) {
	token, claims, err := sign(s.accessSecret, subjectID, now, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &AccessCredential{
		Token:     token,
		SubjectID: subjectID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) verify(secret []byte, tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID <= 0 {
		return nil, ErrCredentialInvalid
	}
	if claims.Subject != "" && claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject mismatch", ErrCredentialInvalid)
	}
	return claims, nil
}

// classifyTokenError maps jwt errors onto failure kinds. A bad signature wins
// over an expired claim so a forged token is never reported as merely expired.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrCredentialExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}
}

func sign(secret []byte, subjectID int64, issuedAt time.Time, ttl time.Duration) (string, *Claims, error) {
	claims := &Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}
