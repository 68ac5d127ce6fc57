package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/identity"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	UpdatePassword(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// writeServiceError maps a service failure onto the HTTP surface: validation
// and backend rejections are 400 carrying the message, the rest is a generic
// 500.
func (h *HandlerImpl) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *identity.APIError
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		api.ErrorResponse(w, r, http.StatusBadRequest, inputErrorMessage(err))
	case errors.As(err, &apiErr):
		api.ErrorResponse(w, r, http.StatusBadRequest, apiErr.Message)
	default:
		h.logger.ErrorContext(r.Context(), "Auth operation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// inputErrorMessage strips the sentinel prefix so the client sees only the
// human part of an ErrInvalidInput.
func inputErrorMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), types.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Invalid input"
	}
	return msg
}

// bearerToken pulls the raw token out of the Authorization header, if any.
func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// Signup godoc
// @Summary      Sign Up
// @Description  Creates an account at the identity backend and seeds the profile row.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body SignupRequest true "Signup parameters"
// @Success      201 {object} SignupResponse "Account created"
// @Failure      400 {object} map[string]interface{} "Invalid input or backend rejection"
// @Router       /api/auth/signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Signup(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Signup failed", slog.String("email", req.Email), slog.Any("error", err))
		h.writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, SignupResponse{
		User:    result.User,
		Message: "Signup successful. Check your email for confirmation.",
		Warning: result.Warning,
	})
}

// Login godoc
// @Summary      Log In
// @Description  Checks credentials with the identity backend and issues a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body LoginRequest true "Credentials"
// @Success      200 {object} LoginResponse "Logged in"
// @Failure      400 {object} map[string]interface{} "Invalid input or bad credentials"
// @Router       /api/auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.WarnContext(ctx, "Login failed", slog.String("email", req.Email), slog.Any("error", err))
		h.writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		User:    result.User,
		Session: result.Session,
		Token:   result.Token,
		Message: "Login successful",
	})
}

// Logout godoc
// @Summary      Log Out
// @Description  Revokes the backend session behind the presented token.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} MessageResponse "Logged out"
// @Failure      400 {object} map[string]interface{} "Backend rejection"
// @Router       /api/auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.authService.Logout(ctx, bearerToken(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// ForgotPassword godoc
// @Summary      Request Password Reset
// @Description  Asks the identity backend to send a password reset email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body ForgotPasswordRequest true "Account email"
// @Success      200 {object} MessageResponse "Reset email sent"
// @Failure      400 {object} map[string]interface{} "Invalid input or backend rejection"
// @Router       /api/auth/forgot-password [post]
func (h *HandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ForgotPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.authService.RequestPasswordReset(ctx, req.Email); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Password reset email sent"})
}

// UpdatePassword godoc
// @Summary      Update Password
// @Description  Sets a new password on the authenticated account.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body UpdatePasswordRequest true "New password"
// @Success      200 {object} MessageResponse "Password updated"
// @Failure      400 {object} map[string]interface{} "Invalid input or backend rejection"
// @Failure      401 {object} map[string]interface{} "Missing token"
// @Security     BearerAuth
// @Router       /api/auth/update-password [post]
func (h *HandlerImpl) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ident, ok := GetIdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdatePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Password is required")
		return
	}

	if err := h.authService.UpdatePassword(ctx, ident.Token, req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// VerifyEmail godoc
// @Summary      Verify Email
// @Description  Confirms an emailed verification token.
// @Tags         Auth
// @Produce      json
// @Param        token query string true "Verification token hash"
// @Param        type  query string true "Verification type"
// @Success      200 {object} VerifyEmailResponse "Email verified"
// @Failure      400 {object} map[string]interface{} "Invalid input or backend rejection"
// @Router       /api/auth/verify-email [get]
func (h *HandlerImpl) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenHash := r.URL.Query().Get("token")
	otpType := r.URL.Query().Get("type")
	if tokenHash == "" || otpType == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Token and type are required")
		return
	}

	user, err := h.authService.VerifyEmail(ctx, tokenHash, otpType)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, VerifyEmailResponse{
		Message: "Email verified successfully",
		User:    user,
	})
}
