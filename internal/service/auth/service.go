package auth

import (
	"context"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	"github.com/Bigidan/beauty-salon-ms/pkg/auth"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/security"
)

// Service authenticates users and issues tokens.
type Service struct {
	users  repository.UserRepository
	jwt    auth.JWTService
	logger *logger.Logger
}

func NewService(users repository.UserRepository, jwt auth.JWTService, log *logger.Logger) *Service {
	return &Service{users: users, jwt: jwt, logger: log}
}

// Login verifies credentials and returns a signed token. Unknown emails
// and bad passwords produce the same error so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(nil)
		}
		return nil, err
	}

	if err := security.VerifyPassword(user.Password, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", req.Email)
		return nil, apperrors.Unauthorized(nil)
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}

// Validate resolves a bearer token into an actor.
func (s *Service) Validate(token string) (*model.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
