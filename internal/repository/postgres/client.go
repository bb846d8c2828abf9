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

func (r *clientRepository) CreateWithUser(ctx context.Context, user *model.User, client *model.Client) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	client.ID = uuid.New()
	client.UserID = user.ID
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userQuery := `
			INSERT INTO users (id, role, name, email, phone, password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, userQuery,
			user.ID, user.Role, user.Name, user.Email, user.Phone, user.Password,
			user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		clientQuery := `
			INSERT INTO clients (id, user_id, contact_info, loyalty_points, deactivated, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.ExecContext(ctx, clientQuery,
			client.ID, client.UserID, client.ContactInfo, client.LoyaltyPoints,
			client.Deactivated, client.CreatedAt, client.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		return nil
	})
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, user_id, contact_info, loyalty_points, deactivated,
			   created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	var client model.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.ClientProfile, error) {
	query := `
		SELECT c.id AS client_id, u.id AS user_id, u.name AS full_name,
			   u.email, u.phone, c.contact_info, c.loyalty_points, c.deactivated
		FROM clients c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	var profile model.ClientProfile
	err := r.db.GetContext(ctx, &profile, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client profile: %w", err)
	}
	return &profile, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client, user *model.User) error {
	client.UpdatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userQuery := `
			UPDATE users
			SET name = $1, email = $2, phone = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, userQuery,
			user.Name, user.Email, user.Phone, user.UpdatedAt, user.ID,
		); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		clientQuery := `
			UPDATE clients
			SET contact_info = $1, loyalty_points = $2, updated_at = $3
			WHERE id = $4
		`
		result, err := tx.ExecContext(ctx, clientQuery,
			client.ContactInfo, client.LoyaltyPoints, client.UpdatedAt, client.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NewNotFound("client", nil)
		}
		return nil
	})
}

func (r *clientRepository) SetDeactivated(ctx context.Context, id uuid.UUID, deactivated bool) error {
	query := `
		UPDATE clients
		SET deactivated = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, deactivated, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to toggle client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("client", nil)
	}

	return nil
}

func (r *clientRepository) List(ctx context.Context, p model.Pagination) ([]*model.ClientProfile, int, error) {
	query := `
		SELECT c.id AS client_id, u.id AS user_id, u.name AS full_name,
			   u.email, u.phone, c.contact_info, c.loyalty_points, c.deactivated
		FROM clients c
		JOIN users u ON u.id = c.user_id
		ORDER BY u.name ASC
		LIMIT $1 OFFSET $2
	`
	var clients []*model.ClientProfile
	if err := r.db.SelectContext(ctx, &clients, query, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients`); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	return clients, total, nil
}

func (r *clientRepository) Search(ctx context.Context, name string) ([]*model.ClientProfile, error) {
	query := `
		SELECT c.id AS client_id, u.id AS user_id, u.name AS full_name,
			   u.email, u.phone, c.contact_info, c.loyalty_points, c.deactivated
		FROM clients c
		JOIN users u ON u.id = c.user_id
		WHERE u.name ILIKE $1
		ORDER BY u.name ASC
	`
	var clients []*model.ClientProfile
	if err := r.db.SelectContext(ctx, &clients, query, "%"+name+"%"); err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}
