package coins

import (
	"context"
	"encoding/json"
	"log/slog"
)

var _ CoinsService = (*ServiceImpl)(nil)

// CoinsService relays the provider's market listing.
type CoinsService interface {
	FetchCoins(ctx context.Context) (json.RawMessage, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
}

func NewService(provider Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
	}
}

func (s *ServiceImpl) FetchCoins(ctx context.Context) (json.RawMessage, error) {
	return s.provider.FetchMarkets(ctx)
}
