package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// Define typed context keys
type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller attached to the request context by the
// gate. Token is the raw bearer string; downstream calls to the backend on
// the caller's behalf need it.
type Identity struct {
	UserID string
	Email  string
	Token  string
	User   *types.User
}

// TokenValidator is the backend-side half of the gate: it re-validates the
// token against the identity backend's own session store.
type TokenValidator interface {
	GetUser(ctx context.Context, accessToken string) (*types.User, error)
}

// gateError carries the status a failed gate check maps to. Each check in the
// pipeline returns a value instead of writing to the response itself.
type gateError struct {
	status  int
	message string
}

func (e *gateError) Error() string { return e.message }

// Gate validates bearer tokens on protected routes.
type Gate struct {
	logger  *slog.Logger
	codec   *TokenCodec
	backend TokenValidator
}

func NewGate(codec *TokenCodec, backend TokenValidator, logger *slog.Logger) *Gate {
	return &Gate{
		logger:  logger,
		codec:   codec,
		backend: backend,
	}
}

// resolveIdentity runs the ordered checks: header present, token decodes,
// backend still honors the session. It returns a result; the middleware
// decides what a failure means.
func (g *Gate) resolveIdentity(r *http.Request) (*Identity, *gateError) {
	ctx := r.Context()

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, &gateError{status: http.StatusUnauthorized, message: "Access token required"}
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return nil, &gateError{status: http.StatusUnauthorized, message: "Authorization header format must be Bearer {token}"}
	}
	tokenString := headerParts[1]

	claims, err := g.codec.Verify(tokenString)
	if err != nil {
		if errors.Is(err, types.ErrTokenExpired) {
			return nil, &gateError{status: http.StatusForbidden, message: "Token expired"}
		}
		return nil, &gateError{status: http.StatusForbidden, message: "Invalid token"}
	}

	// The backend is the source of truth for revocation: a logged-out or
	// deleted account fails here even though the signature is still good.
	user, err := g.backend.GetUser(ctx, tokenString)
	if err != nil {
		g.logger.WarnContext(ctx, "Backend rejected token", slog.String("userID", claims.UserID), slog.Any("error", err))
		return nil, &gateError{status: http.StatusForbidden, message: "Invalid or expired token"}
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Token:  tokenString,
		User:   user,
	}, nil
}

// Authenticate is middleware guarding protected operations. Missing header is
// 401; a malformed, expired, or backend-rejected token is 403.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, gateErr := g.resolveIdentity(r)
		if gateErr != nil {
			g.logger.WarnContext(r.Context(), "Authentication failed", slog.String("reason", gateErr.message))
			api.ErrorResponse(w, r, gateErr.status, gateErr.message)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), ident)))
	})
}

// OptionalAuthenticate runs the same checks but never blocks: on any failure
// the request proceeds without an attached identity.
func (g *Gate) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ident, gateErr := g.resolveIdentity(r); gateErr == nil {
			r = r.WithContext(ContextWithIdentity(r.Context(), ident))
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithIdentity attaches a resolved identity to the context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// GetIdentityFromContext returns the identity attached by the gate.
func GetIdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok
}

// GetUserIDFromContext is a shortcut for handlers that only need the ID.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	ident, ok := GetIdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return ident.UserID, true
}
