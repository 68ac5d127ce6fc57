package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cryptodeck/cryptodeck-api/internal/identity"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

const favoritesTable = "favorites"

// RowStore is the slice of the identity backend's row storage this
// repository uses.
type RowStore interface {
	InsertRow(ctx context.Context, table string, row, dst any) error
	SelectRows(ctx context.Context, table string, filters map[string]string, order string, dst any) error
	DeleteRows(ctx context.Context, table string, filters map[string]string) error
}

var _ RowStore = (*identity.Client)(nil)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// Add inserts a favorite. A duplicate (user, coin) pair returns
	// types.ErrConflict.
	Add(ctx context.Context, fav types.Favorite) (*types.Favorite, error)
	// Remove deletes the matching favorite. Removing a favorite that does
	// not exist is success.
	Remove(ctx context.Context, userID, coinID string) error
	// ListByUser returns the user's favorites, most recently added first.
	ListByUser(ctx context.Context, userID string) ([]types.Favorite, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  RowStore
}

func NewRepository(store RowStore, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		store:  store,
	}
}

func (r *RepositoryImpl) Add(ctx context.Context, fav types.Favorite) (*types.Favorite, error) {
	row := map[string]string{
		"user_id":     fav.UserID,
		"coin_id":     fav.CoinID,
		"coin_name":   fav.CoinName,
		"coin_symbol": fav.CoinSymbol,
	}

	var inserted []types.Favorite
	if err := r.store.InsertRow(ctx, favoritesTable, row, &inserted); err != nil {
		if identity.IsUniqueViolation(err) {
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert favorite: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("favorite insert returned no row")
	}

	r.logger.InfoContext(ctx, "Favorite added",
		slog.String("userID", fav.UserID), slog.String("coinID", fav.CoinID))
	return &inserted[0], nil
}

func (r *RepositoryImpl) Remove(ctx context.Context, userID, coinID string) error {
	filters := map[string]string{
		"user_id": "eq." + userID,
		"coin_id": "eq." + coinID,
	}
	if err := r.store.DeleteRows(ctx, favoritesTable, filters); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	r.logger.InfoContext(ctx, "Favorite removed",
		slog.String("userID", userID), slog.String("coinID", coinID))
	return nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userID string) ([]types.Favorite, error) {
	filters := map[string]string{"user_id": "eq." + userID}

	var favs []types.Favorite
	if err := r.store.SelectRows(ctx, favoritesTable, filters, "created_at.desc", &favs); err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	return favs, nil
}
