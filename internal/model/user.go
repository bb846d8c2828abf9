package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Role      UserRole  `db:"role" json:"role"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Actor is the resolved identity of the caller, set by the auth middleware.
// Handlers and services receive it explicitly instead of looking sessions up.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   UserRole  `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

type UpdateUserRequest struct {
	Role  UserRole `json:"role" binding:"required,oneof=client admin"`
	Name  string   `json:"name" binding:"required,max=200"`
	Email string   `json:"email" binding:"required,email"`
	Phone string   `json:"phone" binding:"required,max=30"`
}

type UserPage struct {
	Users      []*User `json:"users"`
	TotalPages int     `json:"total_pages"`
	Current    int     `json:"current_page"`
	TotalUsers int     `json:"total_users"`
}
