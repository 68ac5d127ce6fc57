package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// ProfileResponse pairs the authenticated account with its profile row.
// Profile is null (with an explanatory message) when the row was never
// written.
type ProfileResponse struct {
	User    *types.User    `json:"user"`
	Profile *types.Profile `json:"profile"`
	Message string         `json:"message,omitempty"`
}

type UpdateProfileResponse struct {
	Message string         `json:"message"`
	Profile *types.Profile `json:"profile"`
}

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile godoc
// @Summary      Get Profile
// @Description  Returns the authenticated user and their profile row. A missing row is not an error.
// @Tags         User
// @Produce      json
// @Success      200 {object} ProfileResponse "User and profile"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/profile [get]
func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	ident, ok := auth.GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.WriteJSONResponse(w, r, http.StatusOK, ProfileResponse{
				User:    ident.User,
				Profile: nil,
				Message: "Profile has not been set up yet",
			})
			return
		}
		l.ErrorContext(ctx, "Failed to get profile", slog.String("userID", ident.UserID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to retrieve profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ProfileResponse{User: ident.User, Profile: profile})
}

// UpdateProfile godoc
// @Summary      Update Profile
// @Description  Overwrites the mutable profile fields and returns the updated row.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        body body types.UpdateProfileParams true "Fields to update"
// @Success      200 {object} UpdateProfileResponse "Profile updated"
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/profile [put]
func (h *HandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	ident, ok := auth.GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(ctx, ident.UserID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.String("userID", ident.UserID), slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Profile does not exist")
			return
		}
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to update profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated successfully",
		Profile: profile,
	})
}
