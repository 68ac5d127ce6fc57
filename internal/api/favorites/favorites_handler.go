package favorites

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

type AddFavoriteRequest struct {
	CoinID     string `json:"coinId"`
	CoinName   string `json:"coinName"`
	CoinSymbol string `json:"coinSymbol"`
}

type ListFavoritesResponse struct {
	Favorites []types.Favorite `json:"favorites"`
}

type AddFavoriteResponse struct {
	Message  string          `json:"message"`
	Favorite *types.Favorite `json:"favorite"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Add(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	favoritesService FavoritesService
	logger           *slog.Logger
}

func NewHandlerImpl(favoritesService FavoritesService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		favoritesService: favoritesService,
		logger:           logger,
	}
}

// List godoc
// @Summary      List Favorites
// @Description  Returns the authenticated user's favorite coins, most recently added first.
// @Tags         Favorites
// @Produce      json
// @Success      200 {object} ListFavoritesResponse "Favorites"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/favorites [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	ident, ok := auth.GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	favs, err := h.favoritesService.List(ctx, ident.UserID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list favorites", slog.String("userID", ident.UserID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to fetch favorites")
		return
	}
	if favs == nil {
		favs = []types.Favorite{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ListFavoritesResponse{Favorites: favs})
}

// Add godoc
// @Summary      Add Favorite
// @Description  Bookmarks a coin for the authenticated user. Duplicate pairs are rejected.
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Param        body body AddFavoriteRequest true "Coin to bookmark"
// @Success      200 {object} AddFavoriteResponse "Favorite added"
// @Failure      400 {object} map[string]interface{} "Invalid input or duplicate"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/favorites [post]
func (h *HandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Add"))

	ident, ok := auth.GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddFavoriteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CoinID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Coin ID is required")
		return
	}

	fav, err := h.favoritesService.Add(ctx, ident.UserID, req.CoinID, req.CoinName, req.CoinSymbol)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Coin is already in favorites")
			return
		}
		l.ErrorContext(ctx, "Failed to add favorite",
			slog.String("userID", ident.UserID), slog.String("coinID", req.CoinID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to add favorite")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AddFavoriteResponse{
		Message:  "Coin added to favorites",
		Favorite: fav,
	})
}

// Remove godoc
// @Summary      Remove Favorite
// @Description  Removes a bookmarked coin. Removing a coin that is not bookmarked is success.
// @Tags         Favorites
// @Produce      json
// @Param        coinId path string true "Coin identifier"
// @Success      200 {object} MessageResponse "Favorite removed"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/favorites/{coinId} [delete]
func (h *HandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Remove"))

	ident, ok := auth.GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	coinID := chi.URLParam(r, "coinId")
	if coinID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Coin ID is required")
		return
	}

	if err := h.favoritesService.Remove(ctx, ident.UserID, coinID); err != nil {
		l.ErrorContext(ctx, "Failed to remove favorite",
			slog.String("userID", ident.UserID), slog.String("coinID", coinID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to remove favorite")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Coin removed from favorites"})
}
