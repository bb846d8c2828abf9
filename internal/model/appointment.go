package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment binds a client, a service and an employee to a start instant.
// The end instant is not stored; it is always derived from the service
// duration at read time.
type Appointment struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	ClientID   uuid.UUID         `db:"client_id" json:"client_id"`
	ServiceID  uuid.UUID         `db:"service_id" json:"service_id"`
	EmployeeID uuid.UUID         `db:"employee_id" json:"employee_id"`
	StartTime  time.Time         `db:"start_time" json:"start_time"`
	Status     AppointmentStatus `db:"status" json:"status"`
	Price      float64           `db:"price" json:"price"`
	DiscountID *uuid.UUID        `db:"discount_id" json:"discount_id,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// End computes the occupied interval's end from the service duration.
func (a *Appointment) End(durationMinutes int) time.Time {
	return a.StartTime.Add(time.Duration(durationMinutes) * time.Minute)
}

// AvailabilityResult is the outcome of a slot check. A conflict is a
// negative result value, not an error.
type AvailabilityResult struct {
	Available     bool       `json:"available"`
	NextAvailable *time.Time `json:"next_available_time,omitempty"`
	Message       string     `json:"message"`
}

// BookingResult is returned by the appointment writer. On conflict Created
// is false and Availability carries the next free instant.
type BookingResult struct {
	Created      bool                `json:"created"`
	Message      string              `json:"message"`
	Appointment  *Appointment        `json:"appointment,omitempty"`
	StartTime    *time.Time          `json:"start_time,omitempty"`
	EndTime      *time.Time          `json:"end_time,omitempty"`
	Availability *AvailabilityResult `json:"availability,omitempty"`
}

// CalendarEvent is the denormalized appointment view rendered by booking
// and admin calendars.
type CalendarEvent struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	EmployeeID uuid.UUID `json:"employee_id"`
}

type CreateAppointmentRequest struct {
	ClientID   uuid.UUID  `json:"client_id" binding:"required"`
	ServiceID  uuid.UUID  `json:"service_id" binding:"required"`
	EmployeeID uuid.UUID  `json:"employee_id" binding:"required"`
	StartTime  time.Time  `json:"start_time" binding:"required"`
	DiscountID *uuid.UUID `json:"discount_id"`
}

type RescheduleAppointmentRequest struct {
	ClientID   uuid.UUID `json:"client_id" binding:"required"`
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
}

// CheckAvailabilityRequest is the resolved input of a slot check. The HTTP
// layer parses the raw query parameters into it.
type CheckAvailabilityRequest struct {
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	StartTime  time.Time
	ExcludeID  *uuid.UUID
}
