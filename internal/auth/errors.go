package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

// Failure kinds produced by the token service, session guard and policy.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrTokenMalformed      = errors.New("token malformed")
	ErrCredentialExpired   = errors.New("credential expired")
	ErrCredentialInvalid   = errors.New("credential invalid")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrForbidden           = errors.New("forbidden")
)

// ForbiddenError carries the reason a policy check failed.
type ForbiddenError struct {
	Reason string
	Fields []string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Is lets errors.Is(err, ErrForbidden) match.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// IsCredentialFailure reports whether err means the presented credential
// cannot be used and must be discarded by the client.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMalformedCredential) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrCredentialExpired) ||
		errors.Is(err, ErrCredentialInvalid) ||
		errors.Is(err, ErrSubjectNotFound)
}

// AccessFailure converts a session guard failure into the response error.
func AccessFailure(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return unauthorized(apperrors.CodeMissingCredential, "authorization token does not exist", err)
	case errors.Is(err, ErrMalformedCredential):
		return unauthorized(apperrors.CodeMalformedCredential, "authorization token type mismatch", err)
	case errors.Is(err, ErrCredentialExpired):
		return unauthorized(apperrors.CodeCredentialExpired, "authorization token has expired", err)
	case errors.Is(err, ErrCredentialInvalid), errors.Is(err, ErrTokenMalformed):
		return unauthorized(apperrors.CodeCredentialInvalid, "authorization token has been tampered with", err)
	case errors.Is(err, ErrSubjectNotFound):
		return unauthorized(apperrors.CodeSubjectNotFound, "token user does not exist", err)
	}
	return apperrors.MapError(err)
}

// RefreshFailure converts a refresh token failure into the response error.
func RefreshFailure(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return unauthorized(apperrors.CodeMissingCredential, "refresh token does not exist", err)
	case errors.Is(err, ErrMalformedCredential):
		return unauthorized(apperrors.CodeMalformedCredential, "refresh token type mismatch", err)
	case errors.Is(err, ErrCredentialExpired):
		return unauthorized(apperrors.CodeCredentialExpired, "refresh token has expired", err)
	case errors.Is(err, ErrCredentialInvalid), errors.Is(err, ErrTokenMalformed):
		return unauthorized(apperrors.CodeCredentialInvalid, "refresh token has been tampered with", err)
	case errors.Is(err, ErrSubjectNotFound):
		return unauthorized(apperrors.CodeSubjectNotFound, "token user does not exist", err)
	}
	return apperrors.MapError(err)
}

// PolicyFailure converts a policy rejection into a 403 response error.
func PolicyFailure(err error) error {
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		var details map[string]any
		if len(forbidden.Fields) > 0 {
			details = map[string]any{"fields": forbidden.Fields}
		}
		return apperrors.Wrap(apperrors.NewDomainError(apperrors.CodeForbidden, forbidden.Reason, http.StatusForbidden, details), err)
	}
	if errors.Is(err, ErrForbidden) {
		return apperrors.Wrap(apperrors.NewDomainError(apperrors.CodeForbidden, "operation not permitted", http.StatusForbidden, nil), err)
	}
	return apperrors.MapError(err)
}

func unauthorized(code, message string, cause error) error {
	return apperrors.Wrap(apperrors.NewDomainError(code, message, http.StatusUnauthorized, nil), cause)
}
