package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit records a completed appointment and the amount the client paid.
type Visit struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ClientID      uuid.UUID `db:"client_id" json:"client_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	VisitDate     time.Time `db:"visit_date" json:"visit_date"`
	AmountPaid    float64   `db:"amount_paid" json:"amount_paid"`
}

type RecordVisitRequest struct {
	ClientID      uuid.UUID `json:"client_id" binding:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	AmountPaid    float64   `json:"amount_paid" binding:"required,gte=0"`
}

// FinancialReport is the income aggregate over a date range.
type FinancialReport struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	TotalIncome float64   `json:"total_income"`
}
