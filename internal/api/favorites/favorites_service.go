package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

var _ FavoritesService = (*ServiceImpl)(nil)

// FavoritesService is the favorite-coin bookkeeping for authenticated users.
type FavoritesService interface {
	List(ctx context.Context, userID string) ([]types.Favorite, error)
	Add(ctx context.Context, userID, coinID, coinName, coinSymbol string) (*types.Favorite, error)
	Remove(ctx context.Context, userID, coinID string) error
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

func (s *ServiceImpl) List(ctx context.Context, userID string) ([]types.Favorite, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ServiceImpl) Add(ctx context.Context, userID, coinID, coinName, coinSymbol string) (*types.Favorite, error) {
	if coinID == "" {
		return nil, fmt.Errorf("%w: coin ID is required", types.ErrInvalidInput)
	}
	return s.repo.Add(ctx, types.Favorite{
		UserID:     userID,
		CoinID:     coinID,
		CoinName:   coinName,
		CoinSymbol: coinSymbol,
	})
}

func (s *ServiceImpl) Remove(ctx context.Context, userID, coinID string) error {
	if coinID == "" {
		return fmt.Errorf("%w: coin ID is required", types.ErrInvalidInput)
	}
	return s.repo.Remove(ctx, userID, coinID)
}
