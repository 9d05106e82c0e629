package auth

import "github.com/acuellar/tiendita-backend/internal/users"

// RegisterRequest contains the payload for creating a shopper account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// LoginRequest contains the credentials for an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RequestMeta carries the client attributes recorded in user_logs.
type RequestMeta struct {
	IPAddress string
	Browser   string
	Country   string
}

// AuthResponse is the register/login result.
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}

// RoleUpdateRequest toggles the admin flag on a user.
type RoleUpdateRequest struct {
	IsAdmin bool `json:"is_admin"`
}
