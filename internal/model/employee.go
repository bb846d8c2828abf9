package model

import (
	"github.com/google/uuid"
)

type Employee struct {
	Base
	FullName string `db:"full_name" json:"full_name"`
	Phone    string `db:"phone" json:"phone"`
	Working  bool   `db:"working" json:"working"`

	// Services the employee can perform, loaded separately.
	Services []ServiceRef `db:"-" json:"services,omitempty"`
}

// ServiceRef is a slim service reference used in employee listings and
// booking-form dropdowns.
type ServiceRef struct {
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	Name      string    `db:"name" json:"name"`
}

type CreateEmployeeRequest struct {
	FullName   string      `json:"full_name" binding:"required,max=200"`
	Phone      string      `json:"phone" binding:"required,max=30"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
}

type UpdateEmployeeRequest struct {
	FullName   string      `json:"full_name" binding:"required,max=200"`
	Phone      string      `json:"phone" binding:"required,max=30"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
}
