package identity

import (
	"time"

	"github.com/community/backend/internal/domain/identity"
)

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	ClientIP  string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse represents an account in API responses
type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUserResponse converts a user to its response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID    int64
	SessionID string
	Email     string
	ExpiresAt time.Time
}
