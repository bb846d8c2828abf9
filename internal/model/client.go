package model

import (
	"github.com/google/uuid"
)

type Client struct {
	Base
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	ContactInfo   *string   `db:"contact_info" json:"contact_info,omitempty"`
	LoyaltyPoints int       `db:"loyalty_points" json:"loyalty_points"`
	Deactivated   bool      `db:"deactivated" json:"deactivated"`
}

// ClientProfile joins the client row with its user row for listings.
type ClientProfile struct {
	ClientID      uuid.UUID `db:"client_id" json:"client_id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	ContactInfo   *string   `db:"contact_info" json:"contact_info,omitempty"`
	LoyaltyPoints int       `db:"loyalty_points" json:"loyalty_points"`
	Deactivated   bool      `db:"deactivated" json:"deactivated"`
}

type ClientPage struct {
	Clients    []*ClientProfile `json:"clients"`
	TotalPages int              `json:"total_pages"`
	Current    int              `json:"current_page"`
	Total      int              `json:"total_clients"`
}

type CreateClientRequest struct {
	FullName      string  `json:"full_name" binding:"required,max=200"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         string  `json:"phone" binding:"required,max=30"`
	Password      string  `json:"password" binding:"omitempty,min=8"`
	ContactInfo   *string `json:"contact_info"`
	LoyaltyPoints int     `json:"loyalty_points" binding:"gte=0"`
}

type UpdateClientRequest struct {
	FullName      *string `json:"full_name"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	ContactInfo   *string `json:"contact_info"`
	LoyaltyPoints *int    `json:"loyalty_points" binding:"omitempty,gte=0"`
}
