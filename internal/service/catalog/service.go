package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// Service manages the salon's service catalog.
type Service struct {
	services repository.ServiceRepository
	logger   *logger.Logger
}

func NewService(services repository.ServiceRepository, log *logger.Logger) *Service {
	return &Service{services: services, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	s.logger.Info("service created", "service_id", svc.ID, "name", svc.Name)
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.services.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.services.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return svc, nil
}

// Hide removes the service from the public catalog without touching
// existing bookings that reference it.
func (s *Service) Hide(ctx context.Context, id uuid.UUID) error {
	return s.services.SetHidden(ctx, id, true)
}

func (s *Service) Unhide(ctx context.Context, id uuid.UUID) error {
	return s.services.SetHidden(ctx, id, false)
}

// List returns the catalog. Hidden services are included only for admins.
func (s *Service) List(ctx context.Context, includeHidden bool) ([]*model.Service, error) {
	return s.services.List(ctx, includeHidden)
}
