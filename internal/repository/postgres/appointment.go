package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
)

// All appointment repository methods here

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, client_id, service_id, employee_id,
			   start_time, status, price, discount_id,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM appointments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) ListForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, client_id, service_id, employee_id,
			   start_time, status, price, discount_id,
			   created_at, updated_at
		FROM appointments
		WHERE employee_id = $1
		AND start_time >= $2
		AND start_time <= $3
		AND status != 'CANCELLED'
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee appointments: %w", err)
	}
	return appointments, nil
}

// overlapExists reports whether any non-cancelled appointment of the employee
// occupies part of [start, end). An existing appointment's end is derived
// from its service duration, matching the availability checker.
func overlapExists(ctx context.Context, tx *sqlx.Tx, employeeID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM appointments a
			JOIN services s ON s.id = a.service_id
			WHERE a.employee_id = $1
			AND a.status != 'CANCELLED'
			AND a.start_time < $3
			AND a.start_time + (s.duration * interval '1 minute') > $2
	`
	args := []interface{}{employeeID, start, end}

	if excludeID != nil {
		query += " AND a.id != $4"
		args = append(args, *excludeID)
	}

	query += ")"

	var exists bool
	if err := tx.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check overlaps: %w", err)
	}
	return exists, nil
}

// lockEmployee serializes concurrent bookings for the same employee.
func lockEmployee(ctx context.Context, tx *sqlx.Tx, employeeID uuid.UUID) error {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, employeeID)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFound("employee", err)
	}
	if err != nil {
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}

func (r *appointmentRepository) CreateIfFree(ctx context.Context, appt *model.Appointment, end time.Time) error {
	appt.ID = uuid.New()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockEmployee(ctx, tx, appt.EmployeeID); err != nil {
			return err
		}

		taken, err := overlapExists(ctx, tx, appt.EmployeeID, appt.StartTime, end, nil)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrSlotTaken
		}

		query := `
			INSERT INTO appointments (
				id, client_id, service_id, employee_id,
				start_time, status, price, discount_id,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err = tx.ExecContext(ctx, query,
			appt.ID,
			appt.ClientID,
			appt.ServiceID,
			appt.EmployeeID,
			appt.StartTime,
			appt.Status,
			appt.Price,
			appt.DiscountID,
			appt.CreatedAt,
			appt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) UpdateIfFree(ctx context.Context, appt *model.Appointment, end time.Time) error {
	appt.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockEmployee(ctx, tx, appt.EmployeeID); err != nil {
			return err
		}

		taken, err := overlapExists(ctx, tx, appt.EmployeeID, appt.StartTime, end, &appt.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrSlotTaken
		}

		query := `
			UPDATE appointments
			SET client_id = $1, service_id = $2, employee_id = $3,
				start_time = $4, price = $5, updated_at = $6
			WHERE id = $7
		`
		result, err := tx.ExecContext(ctx, query,
			appt.ClientID,
			appt.ServiceID,
			appt.EmployeeID,
			appt.StartTime,
			appt.Price,
			appt.UpdatedAt,
			appt.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NewNotFound("appointment", nil)
		}
		return nil
	})
}

type eventRow struct {
	ID           uuid.UUID `db:"id"`
	ClientName   string    `db:"client_name"`
	ServiceName  string    `db:"service_name"`
	EmployeeName string    `db:"employee_name"`
	EmployeeID   uuid.UUID `db:"employee_id"`
	StartTime    time.Time `db:"start_time"`
	Duration     int       `db:"duration"`
}

func (r *appointmentRepository) ListEvents(ctx context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error) {
	query := `
		SELECT a.id, u.name AS client_name, s.name AS service_name,
			   e.full_name AS employee_name, a.employee_id,
			   a.start_time, s.duration
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN employees e ON e.id = a.employee_id
		JOIN clients c ON c.id = a.client_id
		JOIN users u ON u.id = c.user_id
		WHERE a.status != 'CANCELLED'
	`
	args := []interface{}{}
	if employeeID != uuid.Nil {
		query += " AND a.employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY a.start_time ASC"

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointment events: %w", err)
	}
	return eventsFromRows(rows), nil
}

func (r *appointmentRepository) ListEventsForClient(ctx context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error) {
	query := `
		SELECT a.id, u.name AS client_name, s.name AS service_name,
			   e.full_name AS employee_name, a.employee_id,
			   a.start_time, s.duration
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN employees e ON e.id = a.employee_id
		JOIN clients c ON c.id = a.client_id
		JOIN users u ON u.id = c.user_id
		WHERE a.client_id = $1
		AND a.status != 'CANCELLED'
		ORDER BY a.start_time ASC
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list client appointments: %w", err)
	}
	return eventsFromRows(rows), nil
}

func eventsFromRows(rows []eventRow) []*model.CalendarEvent {
	events := make([]*model.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, &model.CalendarEvent{
			ID:         row.ID,
			Title:      fmt.Sprintf("%s\n%s - %s", row.EmployeeName, row.ClientName, row.ServiceName),
			Start:      row.StartTime,
			End:        row.StartTime.Add(time.Duration(row.Duration) * time.Minute),
			EmployeeID: row.EmployeeID,
		})
	}
	return events
}
