package user

import (
	"context"
	"log/slog"

	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

var _ UserService = (*ServiceImpl)(nil)

// UserService exposes profile reads and writes for the authenticated user.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.Profile, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.Profile, error) {
	return s.repo.UpdateProfile(ctx, userID, params)
}
