package dto

import (
	"time"

	"github.com/yurikawa/task-tracker-api/internal/models"
)

// RegisterRequest is the payload for POST /api/users/register.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=5,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=5"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest is the payload for POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /api/users/profile.
// Nil fields are left untouched; non-nil fields are written as given,
// so a field can be cleared by sending an empty string.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,min=1"`
	LastName       *string `json:"last_name" binding:"omitempty,min=1"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// UserDTO represents a user in API responses. The password hash is
// never part of this shape.
type UserDTO struct {
	ID             uint64     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profile_picture"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TokenResponse carries the signed token returned by login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		LastLoginAt:    user.LastLoginAt,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
