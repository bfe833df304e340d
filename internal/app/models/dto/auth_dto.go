package dto

import "github.com/yigit/universe/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest represents a registration form
type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Password string `json:"password" form:"password" binding:"required,password"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse maps a user onto its public view
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{Email: u.Email, Name: u.Name}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	return resp
}
