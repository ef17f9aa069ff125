package dto

import "time"

// CreateResumeRequest payload for resume creation.
type CreateResumeRequest struct {
	Status string `json:"status"`
	Title  string `json:"title" validate:"required,max=200"`
	Intro  string `json:"intro" validate:"required"`
	Exp    string `json:"exp" validate:"required"`
	Skill  string `json:"skill" validate:"required"`
}

// UpdateResumeRequest payload for partial resume updates; nil fields were not
// submitted.
type UpdateResumeRequest struct {
	Status *string `json:"status"`
	Title  *string `json:"title" validate:"omitempty,max=200"`
	Intro  *string `json:"intro"`
	Exp    *string `json:"exp"`
	Skill  *string `json:"skill"`
}

// ResumeOwnerResponse is the profile summary shown with a resume.
type ResumeOwnerResponse struct {
	Name         *string `json:"name,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// ResumeResponse is the API view of a resume.
type ResumeResponse struct {
	ResumeID  int64                `json:"resumeId"`
	UserID    int64                `json:"userId"`
	Status    string               `json:"status"`
	Title     string               `json:"title"`
	Intro     string               `json:"intro"`
	Exp       string               `json:"exp"`
	Skill     string               `json:"skill"`
	Owner     *ResumeOwnerResponse `json:"userInfo,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// CommentRequest payload for comment create and update.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// CommentResponse is the API view of a comment.
type CommentResponse struct {
	CommentID int64     `json:"commentId"`
	ResumeID  int64     `json:"resumeId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
