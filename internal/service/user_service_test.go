package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/resume-service/internal/domain"
)

func TestUpdateProfile_RecordsChangedFieldsOnly(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil)

	age := 30
	users.On("GetInfo", mock.Anything, int64(1)).Return(&domain.UserInfo{UserID: 1, Name: "Alice", Age: &age}, nil)

	var recorded []domain.UserHistory
	users.On("UpdateInfo", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(2).([]domain.UserHistory)
	}).Return(nil)

	newAge := 31
	info, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdateInput{
		Name:   strPtr("Alice"),
		Age:    &newAge,
		Gender: strPtr("F"),
	})
	require.NoError(t, err)
	assert.Equal(t, 31, *info.Age)
	require.Len(t, recorded, 2)
	assert.Equal(t, domain.UserHistory{UserID: 1, ChangedField: "age", OldValue: "30", NewValue: "31"}, recorded[0])
	assert.Equal(t, domain.UserHistory{UserID: 1, ChangedField: "gender", OldValue: "", NewValue: "F"}, recorded[1])
}

func TestUpdateProfile_NoChangesSkipsWrite(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil)
	users.On("GetInfo", mock.Anything, int64(1)).Return(&domain.UserInfo{UserID: 1, Name: "Alice"}, nil)

	_, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdateInput{Name: strPtr("Alice")})
	require.NoError(t, err)
	users.AssertNotCalled(t, "UpdateInfo", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_MissingProfile(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil)
	users.On("GetInfo", mock.Anything, int64(1)).Return(nil, pgx.ErrNoRows)

	_, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdateInput{Name: strPtr("B")})
	requireDomainError(t, err, http.StatusNotFound)
}

func TestUpdateProfile_BlankName(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil)
	users.On("GetInfo", mock.Anything, int64(1)).Return(&domain.UserInfo{UserID: 1, Name: "Alice"}, nil)

	_, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdateInput{Name: strPtr("  ")})
	requireDomainError(t, err, http.StatusBadRequest)
}

func TestGetProfileAndHistory(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
	users.On("GetByID", mock.Anything, int64(2)).Return(nil, pgx.ErrNoRows)
	users.On("GetInfo", mock.Anything, int64(1)).Return(&domain.UserInfo{UserID: 1, Name: "Alice"}, nil)
	users.On("ListHistory", mock.Anything, int64(1)).Return([]domain.UserHistory{{ChangedField: "name"}}, nil)

	user, info, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Alice", info.Name)

	items, err := svc.ListHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListHistory(context.Background(), 2)
	requireDomainError(t, err, http.StatusNotFound)
}
