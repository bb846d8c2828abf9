package model

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

type Discount struct {
	Base
	Type       DiscountType `db:"discount_type" json:"discount_type"`
	Value      float64      `db:"value" json:"value"`
	Conditions string       `db:"conditions" json:"conditions"`
	StartDate  time.Time    `db:"start_date" json:"start_date"`
	EndDate    time.Time    `db:"end_date" json:"end_date"`
	Active     bool         `db:"active" json:"active"`
}

// Apply returns the price after the discount, never below zero.
func (d *Discount) Apply(price float64) float64 {
	switch d.Type {
	case DiscountTypePercentage:
		price = price - price*d.Value/100
	case DiscountTypeFixed:
		price = price - d.Value
	}
	if price < 0 {
		return 0
	}
	return price
}

type ClientDiscount struct {
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	DiscountID  uuid.UUID `db:"discount_id" json:"discount_id"`
	AppliedDate time.Time `db:"applied_date" json:"applied_date"`
}

type CreateDiscountRequest struct {
	Type       DiscountType `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value      float64      `json:"value" binding:"required,gt=0"`
	Conditions string       `json:"conditions" binding:"max=500"`
	StartDate  time.Time    `json:"start_date" binding:"required"`
	EndDate    time.Time    `json:"end_date" binding:"required,gtfield=StartDate"`
	Active     bool         `json:"active"`
}

type UpdateDiscountRequest struct {
	Type       *DiscountType `json:"discount_type" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	Value      *float64      `json:"value" binding:"omitempty,gt=0"`
	Conditions *string       `json:"conditions"`
	StartDate  *time.Time    `json:"start_date"`
	EndDate    *time.Time    `json:"end_date"`
}
