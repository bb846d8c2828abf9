package model

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is an employee's working window for a single day.
type Schedule struct {
	Base
	EmployeeID uuid.UUID `db:"employee_id" json:"employee_id"`
	WorkDate   time.Time `db:"work_date" json:"work_date"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	Active     bool      `db:"active" json:"active"`
}

// ScheduleEntry joins a schedule with the employee name for calendar views.
type ScheduleEntry struct {
	ScheduleID   uuid.UUID `db:"schedule_id" json:"schedule_id"`
	EmployeeID   uuid.UUID `db:"employee_id" json:"employee_id"`
	EmployeeName string    `db:"employee_name" json:"employee_name"`
	WorkDate     time.Time `db:"work_date" json:"work_date"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	Active       bool      `db:"active" json:"active"`
}

type CreateScheduleRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	WorkDate   time.Time `json:"work_date" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}
