package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
)

func (r *scheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, employee_id, work_date, start_time, end_time, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.EmployeeID, s.WorkDate, s.StartTime, s.EndTime, s.Active,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE schedules
		SET active = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to toggle schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("schedule", nil)
	}

	return nil
}

func (r *scheduleRepository) List(ctx context.Context, employeeID uuid.UUID) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT s.id AS schedule_id, s.employee_id, e.full_name AS employee_name,
			   s.work_date, s.start_time, s.end_time, s.active
		FROM schedules s
		JOIN employees e ON e.id = s.employee_id
	`
	args := []interface{}{}
	if employeeID != uuid.Nil {
		query += " WHERE s.employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY s.work_date ASC, s.start_time ASC"

	var entries []*model.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return entries, nil
}
