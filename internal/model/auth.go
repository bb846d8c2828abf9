package model

import (
	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// TokenClaims is what the auth middleware extracts from a bearer token.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   UserRole  `json:"role"`
	Email  string    `json:"email"`
}
