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

func insertEmployeeServices(ctx context.Context, tx *sqlx.Tx, employeeID uuid.UUID, serviceIDs []uuid.UUID) error {
	query := `
		INSERT INTO service_employees (employee_id, service_id)
		VALUES ($1, $2)
	`
	for _, serviceID := range serviceIDs {
		if _, err := tx.ExecContext(ctx, query, employeeID, serviceID); err != nil {
			return fmt.Errorf("failed to link employee service: %w", err)
		}
	}
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, emp *model.Employee, serviceIDs []uuid.UUID) error {
	emp.ID = uuid.New()
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO employees (id, full_name, phone, working, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.ExecContext(ctx, query,
			emp.ID, emp.FullName, emp.Phone, emp.Working, emp.CreatedAt, emp.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		return insertEmployeeServices(ctx, tx, emp.ID, serviceIDs)
	})
}

func (r *employeeRepository) Get(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, full_name, phone, working, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	var emp model.Employee
	err := r.db.GetContext(ctx, &emp, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("employee", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	services, err := r.listServices(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.Services = services

	return &emp, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *model.Employee, serviceIDs []uuid.UUID) error {
	emp.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE employees
			SET full_name = $1, phone = $2, updated_at = $3
			WHERE id = $4
		`
		result, err := tx.ExecContext(ctx, query,
			emp.FullName, emp.Phone, emp.UpdatedAt, emp.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NewNotFound("employee", nil)
		}

		if serviceIDs == nil {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM service_employees WHERE employee_id = $1`, emp.ID,
		); err != nil {
			return fmt.Errorf("failed to unlink employee services: %w", err)
		}

		return insertEmployeeServices(ctx, tx, emp.ID, serviceIDs)
	})
}

func (r *employeeRepository) SetWorking(ctx context.Context, id uuid.UUID, working bool) error {
	query := `
		UPDATE employees
		SET working = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, working, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to toggle employee: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("employee", nil)
	}

	return nil
}

func (r *employeeRepository) List(ctx context.Context) ([]*model.Employee, error) {
	query := `
		SELECT id, full_name, phone, working, created_at, updated_at
		FROM employees
		ORDER BY full_name ASC
	`
	var employees []*model.Employee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	for _, emp := range employees {
		services, err := r.listServices(ctx, emp.ID)
		if err != nil {
			return nil, err
		}
		emp.Services = services
	}

	return employees, nil
}

func (r *employeeRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT e.id, e.full_name, e.phone, e.working, e.created_at, e.updated_at
		FROM employees e
		JOIN service_employees se ON se.employee_id = e.id
		WHERE se.service_id = $1
		AND e.working = true
		ORDER BY e.full_name ASC
	`
	var employees []*model.Employee
	if err := r.db.SelectContext(ctx, &employees, query, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list employees by service: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) listServices(ctx context.Context, employeeID uuid.UUID) ([]model.ServiceRef, error) {
	query := `
		SELECT se.service_id, s.name
		FROM service_employees se
		JOIN services s ON s.id = se.service_id
		WHERE se.employee_id = $1
	`
	var refs []model.ServiceRef
	if err := r.db.SelectContext(ctx, &refs, query, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list employee services: %w", err)
	}
	return refs, nil
}
