package dto

import "time"

// LoginRequest payload for the demo login.
type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public identity shape.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
