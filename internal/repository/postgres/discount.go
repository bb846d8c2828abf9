package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
)

func (r *discountRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (
			id, discount_type, value, conditions, start_date, end_date, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.Type, d.Value, d.Conditions, d.StartDate, d.EndDate, d.Active,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

func (r *discountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	query := `
		SELECT id, discount_type, value, conditions, start_date, end_date, active,
			   created_at, updated_at
		FROM discounts
		WHERE id = $1
	`
	var d model.Discount
	err := r.db.GetContext(ctx, &d, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("discount", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return &d, nil
}

func (r *discountRepository) Update(ctx context.Context, d *model.Discount) error {
	query := `
		UPDATE discounts
		SET discount_type = $1, value = $2, conditions = $3,
			start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $7
	`
	d.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		d.Type, d.Value, d.Conditions, d.StartDate, d.EndDate, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("discount", nil)
	}

	return nil
}

func (r *discountRepository) List(ctx context.Context) ([]*model.Discount, error) {
	query := `
		SELECT id, discount_type, value, conditions, start_date, end_date, active,
			   created_at, updated_at
		FROM discounts
		ORDER BY start_date DESC
	`
	var discounts []*model.Discount
	if err := r.db.SelectContext(ctx, &discounts, query); err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

func (r *discountRepository) ListActive(ctx context.Context) ([]*model.Discount, error) {
	query := `
		SELECT id, discount_type, value, conditions, start_date, end_date, active,
			   created_at, updated_at
		FROM discounts
		WHERE active = true
		ORDER BY start_date DESC
	`
	var discounts []*model.Discount
	if err := r.db.SelectContext(ctx, &discounts, query); err != nil {
		return nil, fmt.Errorf("failed to list active discounts: %w", err)
	}
	return discounts, nil
}

func (r *discountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE discounts
		SET active = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to toggle discount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("discount", nil)
	}

	return nil
}

func (r *discountRepository) AssignToClient(ctx context.Context, clientID, discountID uuid.UUID) error {
	query := `
		INSERT INTO client_discounts (client_id, discount_id, applied_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id, discount_id) DO UPDATE SET applied_date = $3
	`
	if _, err := r.db.ExecContext(ctx, query, clientID, discountID, time.Now()); err != nil {
		return fmt.Errorf("failed to assign discount: %w", err)
	}
	return nil
}

func (r *discountRepository) GetActiveForClient(ctx context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error) {
	query := `
		SELECT d.id, d.discount_type, d.value, d.conditions,
			   d.start_date, d.end_date, d.active, d.created_at, d.updated_at
		FROM discounts d
		JOIN client_discounts cd ON cd.discount_id = d.id
		WHERE cd.client_id = $1
		AND d.active = true
		AND d.start_date <= $2
		AND d.end_date >= $2
		ORDER BY cd.applied_date DESC
		LIMIT 1
	`
	var d model.Discount
	err := r.db.GetContext(ctx, &d, query, clientID, at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client discount: %w", err)
	}
	return &d, nil
}
