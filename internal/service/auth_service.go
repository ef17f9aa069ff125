package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/events"
	"github.com/spec-kit/resume-service/internal/repository"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

const minPasswordLength = 6

// TokenIssuer is the part of the token service used by sign-in flows.
type TokenIssuer interface {
	Issue(ctx context.Context, subjectID int64, client domain.ClientMeta) (*auth.AccessCredential, *auth.RefreshCredential, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.AccessCredential, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// AuthService coordinates registration and sign-in flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     TokenIssuer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// SignUpInput describes a registration request. Either ClientID or
// Email/Password identifies the account.
type SignUpInput struct {
	Email           string
	ClientID        string
	Password        string
	PasswordConfirm string
	Name            string
	Age             *int
	Gender          *string
	ProfileImage    *string
	Role            string
}

// SignInInput describes a sign-in request.
type SignInInput struct {
	Email    string
	Password string
	ClientID string
	Client   domain.ClientMeta
}

// SignInResult carries the issued credential pair.
type SignInResult struct {
	User    *domain.User
	Access  *auth.AccessCredential
	Refresh *auth.RefreshCredential
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		bcryptCost: deps.BcryptCost,
	}
}

// SignUp registers an account and its profile. The boolean result is false
// when the client id was already registered; the existing account is returned.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, bool, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.ClientID = strings.TrimSpace(input.ClientID)
	input.Name = strings.TrimSpace(input.Name)

	if err := validateSignUp(input); err != nil {
		return nil, false, err
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, false, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	user := &domain.User{Role: role}
	if input.ClientID != "" {
		existing, err := s.users.GetByClientID(ctx, input.ClientID)
		switch {
		case err == nil:
			return existing, false, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, false, err
		}
		user.ClientID = &input.ClientID
	} else {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			return nil, false, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, err
		}
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, false, err
		}
		user.Email = &input.Email
		user.PasswordHash = hash
	}

	info := &domain.UserInfo{
		Name:         input.Name,
		Age:          input.Age,
		Gender:       input.Gender,
		ProfileImage: input.ProfileImage,
	}
	if err := s.users.CreateWithInfo(ctx, user, info); err != nil {
		return nil, false, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, true, nil
}

func validateSignUp(input SignUpInput) error {
	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "required"
	}
	if input.ClientID == "" {
		if input.Email == "" {
			details["email"] = "required"
		}
		switch {
		case input.Password == "":
			details["password"] = "required"
		case len(input.Password) < minPasswordLength:
			details["password"] = "must be at least 6 characters"
		case input.Password != input.PasswordConfirm:
			details["passwordConfirm"] = "does not match password"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid sign-up request", details)
	}
	return nil
}

// SignIn authenticates with email/password or a client id and issues a
// credential pair.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	user, method, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.tokens.Issue(ctx, user.ID, input.Client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in",
		zap.Int64("user_id", user.ID),
		zap.String("method", method),
		zap.String("ip", input.Client.IP),
		zap.String("user_agent", input.Client.UserAgent))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserSignedIn,
		ResourceID: user.ID,
		ActorID:    user.ID,
		Payload: events.UserSignedInPayload{
			Method:    method,
			IP:        input.Client.IP,
			UserAgent: input.Client.UserAgent,
		},
	})
	return &SignInResult{User: user, Access: access, Refresh: refresh}, nil
}

func (s *AuthService) authenticate(ctx context.Context, input SignInInput) (*domain.User, string, error) {
	clientID := strings.TrimSpace(input.ClientID)
	if clientID != "" {
		user, err := s.users.GetByClientID(ctx, clientID)
		if err != nil {
			return nil, "", invalidCredentials(err)
		}
		return user, "client_id", nil
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, "", apperrors.NewValidationError("email and password or clientId required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", invalidCredentials(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, "", invalidCredentials(err)
	}
	return user, "password", nil
}

func invalidCredentials(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, auth.ErrPasswordMismatch) {
		return apperrors.Wrap(apperrors.NewDomainError(apperrors.CodeUnauthorized, "invalid credentials", http.StatusUnauthorized, nil), err)
	}
	return err
}

// RefreshAccess mints a new access credential from a refresh token.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (*auth.AccessCredential, error) {
	access, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Info("refresh rejected", zap.Error(err))
		return nil, auth.RefreshFailure(err)
	}
	s.logger.Info("access token refreshed", zap.Int64("user_id", access.SubjectID))
	return access, nil
}

// SignOut revokes the refresh token when one is presented. Unknown tokens are
// ignored.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, auth.ErrRefreshRecordNotFound) {
			return nil
		}
		return err
	}
	s.logger.Info("refresh token revoked")
	return nil
}
