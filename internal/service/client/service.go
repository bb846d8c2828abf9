package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/security"
	"github.com/Bigidan/beauty-salon-ms/pkg/validator"
)

// Service manages salon clients. Every client is backed by a user account;
// both rows are created together.
type Service struct {
	clients  repository.ClientRepository
	users    repository.UserRepository
	validate *validator.Validator
	logger   *logger.Logger
}

func NewService(clients repository.ClientRepository, users repository.UserRepository, log *logger.Logger) *Service {
	return &Service{clients: clients, users: users, validate: validator.New(), logger: log}
}

// Register creates the user account and the client record. Registrations
// can arrive from paths other than the HTTP layer, so the request is
// validated here too.
func (s *Service) Register(ctx context.Context, req *model.CreateClientRequest) (*model.ClientProfile, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.NewBadRequest(err.Error(), err)
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email is already registered", nil)
	}

	password := req.Password
	if password == "" {
		// Walk-in clients registered by staff get a random credential they
		// can reset later.
		password = uuid.NewString()
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Role:     model.UserRoleClient,
		Name:     req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hash,
	}
	client := &model.Client{
		ContactInfo:   req.ContactInfo,
		LoyaltyPoints: req.LoyaltyPoints,
	}

	if err := s.clients.CreateWithUser(ctx, user, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client registered", "client_id", client.ID)
	return s.clients.GetProfile(ctx, client.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ClientProfile, error) {
	return s.clients.GetProfile(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.ClientProfile, error) {
	client, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, client.UserID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.Name = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ContactInfo != nil {
		client.ContactInfo = req.ContactInfo
	}
	if req.LoyaltyPoints != nil {
		client.LoyaltyPoints = *req.LoyaltyPoints
	}

	if err := s.clients.Update(ctx, client, user); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return s.clients.GetProfile(ctx, id)
}

func (s *Service) AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) (*model.ClientProfile, error) {
	client, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, client.UserID)
	if err != nil {
		return nil, err
	}

	client.LoyaltyPoints += points
	if client.LoyaltyPoints < 0 {
		client.LoyaltyPoints = 0
	}
	if err := s.clients.Update(ctx, client, user); err != nil {
		return nil, err
	}
	return s.clients.GetProfile(ctx, id)
}

// Deactivate soft-disables the client: the row stays for history but the
// account can no longer book.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.clients.SetDeactivated(ctx, id, true)
}

func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.clients.SetDeactivated(ctx, id, false)
}

func (s *Service) List(ctx context.Context, p model.Pagination) (*model.ClientPage, error) {
	p.Normalize()

	clients, total, err := s.clients.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	return &model.ClientPage{
		Clients:    clients,
		TotalPages: totalPages,
		Current:    p.Page,
		Total:      total,
	}, nil
}

func (s *Service) Search(ctx context.Context, name string) ([]*model.ClientProfile, error) {
	return s.clients.Search(ctx, name)
}
