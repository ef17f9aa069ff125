package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
	"github.com/spec-kit/resume-service/internal/repository"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateWithInfo(ctx context.Context, user *domain.User, info *domain.UserInfo) error {
	return m.Called(ctx, user, info).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByClientID(ctx context.Context, clientID string) (*domain.User, error) {
	args := m.Called(ctx, clientID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetInfo(ctx context.Context, userID int64) (*domain.UserInfo, error) {
	args := m.Called(ctx, userID)
	info, _ := args.Get(0).(*domain.UserInfo)
	return info, args.Error(1)
}

func (m *mockUserRepo) UpdateInfo(ctx context.Context, info *domain.UserInfo, changes []domain.UserHistory) error {
	return m.Called(ctx, info, changes).Error(0)
}

func (m *mockUserRepo) ListHistory(ctx context.Context, userID int64) ([]domain.UserHistory, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]domain.UserHistory)
	return items, args.Error(1)
}

type mockResumeRepo struct{ mock.Mock }

func (m *mockResumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}

func (m *mockResumeRepo) Update(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}

func (m *mockResumeRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockResumeRepo) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	resume, _ := args.Get(0).(*domain.Resume)
	return resume, args.Error(1)
}

func (m *mockResumeRepo) List(ctx context.Context, order repository.ResumeOrder) ([]domain.Resume, error) {
	args := m.Called(ctx, order)
	items, _ := args.Get(0).([]domain.Resume)
	return items, args.Error(1)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, resumeID, commentID int64) (*domain.Comment, error) {
	args := m.Called(ctx, resumeID, commentID)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *mockCommentRepo) ListByResume(ctx context.Context, resumeID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, resumeID)
	items, _ := args.Get(0).([]domain.Comment)
	return items, args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Issue(ctx context.Context, subjectID int64, client domain.ClientMeta) (*auth.AccessCredential, *auth.RefreshCredential, error) {
	args := m.Called(ctx, subjectID, client)
	access, _ := args.Get(0).(*auth.AccessCredential)
	refresh, _ := args.Get(1).(*auth.RefreshCredential)
	return access, refresh, args.Error(2)
}

func (m *mockTokens) Refresh(ctx context.Context, refreshToken string) (*auth.AccessCredential, error) {
	args := m.Called(ctx, refreshToken)
	access, _ := args.Get(0).(*auth.AccessCredential)
	return access, args.Error(1)
}

func (m *mockTokens) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func sessionFor(id int64, role domain.Role) *auth.ResolvedSession {
	user := &domain.User{ID: id, Role: role}
	return &auth.ResolvedSession{Identity: user, IsAdmin: user.IsAdmin()}
}

func strPtr(s string) *string { return &s }
