package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessUpdateProfile = "profile updated successfully"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedUpdateProfile = "failed to update profile"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrUserBanned         = errors.New("account suspended")
	ErrInvalidRole        = errors.New("invalid role")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required,oneof=donor receiver volunteer ngo"`
		Phone    string `json:"phone" validate:"omitempty"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserResponse struct {
		ID                 string    `json:"id"`
		Name               string    `json:"name"`
		Email              string    `json:"email"`
		Role               string    `json:"role"`
		Phone              string    `json:"phone,omitempty"`
		Bio                string    `json:"bio,omitempty"`
		AvatarURL          string    `json:"avatar_url,omitempty"`
		EmailNotifications bool      `json:"email_notifications"`
		CreatedAt          time.Time `json:"created_at"`
	}

	UpdateProfileRequest struct {
		Name               *string `json:"name" validate:"omitempty,min=2"`
		Phone              *string `json:"phone"`
		Bio                *string `json:"bio"`
		AvatarURL          *string `json:"avatar_url"`
		EmailNotifications *bool   `json:"email_notifications"`
	}
)
