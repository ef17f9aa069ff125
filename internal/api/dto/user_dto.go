package dto

import "time"

// SignUpRequest payload for registration. Either clientId or email/password
// identifies the account; the service enforces that cross-field rule.
type SignUpRequest struct {
	Email           string  `json:"email" validate:"omitempty,email"`
	ClientID        string  `json:"clientId" validate:"omitempty,max=255"`
	Password        string  `json:"password" validate:"omitempty,min=6,max=72"`
	PasswordConfirm string  `json:"passwordConfirm"`
	Name            string  `json:"name" validate:"required,max=100"`
	Age             *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender          *string `json:"gender" validate:"omitempty,max=20"`
	ProfileImage    *string `json:"profileImage" validate:"omitempty,max=2048"`
	Role            string  `json:"role" validate:"omitempty,oneof=user admin"`
}

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	ClientID string `json:"clientId"`
}

// UpdateProfileRequest payload for profile changes.
type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Age          *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender       *string `json:"gender" validate:"omitempty,max=20"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=2048"`
}

// UserResponse is the account with its profile.
type UserResponse struct {
	UserID       int64     `json:"userId"`
	Email        *string   `json:"email,omitempty"`
	ClientID     *string   `json:"clientId,omitempty"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserHistoryResponse is one profile change.
type UserHistoryResponse struct {
	HistoryID    int64     `json:"userHistoryId"`
	ChangedField string    `json:"changedField"`
	OldValue     string    `json:"oldValue"`
	NewValue     string    `json:"newValue"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenResponse reports credential lifetimes; token values travel in cookies.
type TokenResponse struct {
	Message          string     `json:"message"`
	AccessExpiresAt  time.Time  `json:"accessTokenExpiresAt"`
	RefreshExpiresAt *time.Time `json:"refreshTokenExpiresAt,omitempty"`
}
