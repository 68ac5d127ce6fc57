package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cryptodeck/cryptodeck-api/internal/identity"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

const profilesTable = "profiles"

// RowStore is the slice of the identity backend's row storage this
// repository uses.
type RowStore interface {
	InsertRow(ctx context.Context, table string, row, dst any) error
	SelectRows(ctx context.Context, table string, filters map[string]string, order string, dst any) error
	UpdateRows(ctx context.Context, table string, filters map[string]string, patch, dst any) error
}

var _ RowStore = (*identity.Client)(nil)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// CreateProfile writes the profile row that mirrors a new account.
	CreateProfile(ctx context.Context, profile types.Profile) error
	// GetProfile returns the profile row keyed by the user identifier,
	// or types.ErrNotFound when none exists.
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	// UpdateProfile overwrites the mutable fields present in params and
	// bumps updated_at.
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.Profile, error)
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

func (r *RepositoryImpl) CreateProfile(ctx context.Context, profile types.Profile) error {
	if err := r.store.InsertRow(ctx, profilesTable, profile, nil); err != nil {
		return fmt.Errorf("failed to insert profile row: %w", err)
	}
	r.logger.InfoContext(ctx, "Profile row created", slog.String("userID", profile.ID))
	return nil
}

func (r *RepositoryImpl) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	var rows []types.Profile
	filters := map[string]string{"id": "eq." + userID}
	if err := r.store.SelectRows(ctx, profilesTable, filters, "", &rows); err != nil {
		return nil, fmt.Errorf("failed to query profile row: %w", err)
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return &rows[0], nil
}

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.Profile, error) {
	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID))

	// Check each field in params. Nil means "leave alone".
	patch := map[string]any{}
	if params.FullName != nil {
		patch["full_name"] = *params.FullName
	}
	if params.Phone != nil {
		patch["phone"] = *params.Phone
	}
	if params.Country != nil {
		patch["country"] = *params.Country
	}
	if params.City != nil {
		patch["city"] = *params.City
	}
	if params.Bio != nil {
		patch["bio"] = *params.Bio
	}
	if params.Website != nil {
		patch["website"] = *params.Website
	}
	if params.Twitter != nil {
		patch["twitter"] = *params.Twitter
	}
	if params.GitHub != nil {
		patch["github"] = *params.GitHub
	}

	if len(patch) == 0 {
		l.WarnContext(ctx, "UpdateProfile called with no fields to update")
		return r.GetProfile(ctx, userID)
	}
	patch["updated_at"] = time.Now().UTC()

	var rows []types.Profile
	filters := map[string]string{"id": "eq." + userID}
	if err := r.store.UpdateRows(ctx, profilesTable, filters, patch, &rows); err != nil {
		return nil, fmt.Errorf("failed to update profile row: %w", err)
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	l.InfoContext(ctx, "Profile updated", slog.Int("fields", len(patch)-1))
	return &rows[0], nil
}
