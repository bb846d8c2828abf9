package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
)

func (r *visitRepository) Create(ctx context.Context, v *model.Visit) error {
	query := `
		INSERT INTO visit_history (id, client_id, appointment_id, visit_date, amount_paid)
		VALUES ($1, $2, $3, $4, $5)
	`
	v.ID = uuid.New()
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ClientID, v.AppointmentID, v.VisitDate, v.AmountPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

func (r *visitRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Visit, error) {
	query := `
		SELECT id, client_id, appointment_id, visit_date, amount_paid
		FROM visit_history
		WHERE client_id = $1
		ORDER BY visit_date DESC
	`
	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) TotalPaidBetween(ctx context.Context, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount_paid), 0)
		FROM visit_history
		WHERE visit_date >= $1
		AND visit_date <= $2
	`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, from, to); err != nil {
		return 0, fmt.Errorf("failed to compute income: %w", err)
	}
	return total, nil
}
