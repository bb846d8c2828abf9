package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// Service is the admin view over user accounts.
type Service struct {
	users  repository.UserRepository
	logger *logger.Logger
}

func NewService(users repository.UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, logger: log}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Email != req.Email {
		if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
			return nil, apperrors.NewConflict("email is already registered", nil)
		}
	}

	user.Role = req.Role
	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return apperrors.NewBadRequest("cannot delete your own account", nil)
	}
	return s.users.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, p model.Pagination) (*model.UserPage, error) {
	p.Normalize()

	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	return &model.UserPage{
		Users:      users,
		TotalPages: totalPages,
		Current:    p.Page,
		TotalUsers: total,
	}, nil
}

func (s *Service) Search(ctx context.Context, name string) ([]*model.User, error) {
	return s.users.Search(ctx, name)
}
