package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/repository"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

// UserService exposes profile operations.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: loggerOrNop(logger)}
}

// ProfileUpdateInput lists profile fields to change; nil means unchanged.
type ProfileUpdateInput struct {
	Name         *string
	Age          *int
	Gender       *string
	ProfileImage *string
}

// GetProfile returns the account and its profile.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.User, *domain.UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, notFound(err, "user")
	}
	info, err := s.users.GetInfo(ctx, userID)
	if err != nil {
		return nil, nil, notFound(err, "user info")
	}
	return user, info, nil
}

// UpdateProfile applies input and records one history row per changed field.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input ProfileUpdateInput) (*domain.UserInfo, error) {
	info, err := s.users.GetInfo(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user info")
	}

	var changes []domain.UserHistory
	record := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, domain.UserHistory{
				UserID:       userID,
				ChangedField: field,
				OldValue:     oldValue,
				NewValue:     newValue,
			})
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", map[string]any{"name": "required"})
		}
		record("name", info.Name, name)
		info.Name = name
	}
	if input.Age != nil {
		if *input.Age < 0 {
			return nil, apperrors.NewValidationError("age must not be negative", map[string]any{"age": *input.Age})
		}
		record("age", formatIntPtr(info.Age), strconv.Itoa(*input.Age))
		age := *input.Age
		info.Age = &age
	}
	if input.Gender != nil {
		record("gender", stringOrEmpty(info.Gender), *input.Gender)
		gender := *input.Gender
		info.Gender = &gender
	}
	if input.ProfileImage != nil {
		record("profileImage", stringOrEmpty(info.ProfileImage), *input.ProfileImage)
		image := *input.ProfileImage
		info.ProfileImage = &image
	}

	if len(changes) == 0 {
		return info, nil
	}
	if err := s.users.UpdateInfo(ctx, info, changes); err != nil {
		return nil, notFound(err, "user info")
	}
	s.logger.Info("profile updated", zap.Int64("user_id", userID), zap.Int("changes", len(changes)))
	return info, nil
}

// ListHistory returns the profile change log of a user, newest first.
func (s *UserService) ListHistory(ctx context.Context, userID int64) ([]domain.UserHistory, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	return s.users.ListHistory(ctx, userID)
}

func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
