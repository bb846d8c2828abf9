package discount

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// test seam
var timeNow = time.Now

// Service manages discounts and their assignment to clients.
type Service struct {
	discounts repository.DiscountRepository
	clients   repository.ClientRepository
	logger    *logger.Logger
}

func NewService(discounts repository.DiscountRepository, clients repository.ClientRepository, log *logger.Logger) *Service {
	return &Service{discounts: discounts, clients: clients, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error) {
	d := &model.Discount{
		Type:       req.Type,
		Value:      req.Value,
		Conditions: req.Conditions,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Active:     req.Active,
	}
	if d.Type == model.DiscountTypePercentage && d.Value > 100 {
		return nil, apperrors.NewBadRequest("percentage discount cannot exceed 100", nil)
	}
	if err := s.discounts.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}
	s.logger.Info("discount created", "discount_id", d.ID, "type", d.Type)
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return s.discounts.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.Discount, error) {
	d, err := s.discounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.Value != nil {
		d.Value = *req.Value
	}
	if req.Conditions != nil {
		d.Conditions = *req.Conditions
	}
	if req.StartDate != nil {
		d.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		d.EndDate = *req.EndDate
	}
	if d.Type == model.DiscountTypePercentage && d.Value > 100 {
		return nil, apperrors.NewBadRequest("percentage discount cannot exceed 100", nil)
	}
	if !d.EndDate.After(d.StartDate) {
		return nil, apperrors.NewBadRequest("end date must be after start date", nil)
	}

	if err := s.discounts.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}
	return d, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.discounts.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.discounts.SetActive(ctx, id, true)
}

func (s *Service) List(ctx context.Context) ([]*model.Discount, error) {
	return s.discounts.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]*model.Discount, error) {
	return s.discounts.ListActive(ctx)
}

// AssignToClient links a discount to a client so the booking path picks it
// up automatically.
func (s *Service) AssignToClient(ctx context.Context, clientID, discountID uuid.UUID) error {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return err
	}
	if _, err := s.discounts.Get(ctx, discountID); err != nil {
		return err
	}
	if err := s.discounts.AssignToClient(ctx, clientID, discountID); err != nil {
		return fmt.Errorf("failed to assign discount: %w", err)
	}
	return nil
}

// Preview returns the price a client would pay for a service right now.
func (s *Service) Preview(ctx context.Context, clientID uuid.UUID, price float64) (float64, error) {
	d, err := s.discounts.GetActiveForClient(ctx, clientID, timeNow())
	if err != nil {
		return 0, err
	}
	if d == nil {
		return price, nil
	}
	return d.Apply(price), nil
}
