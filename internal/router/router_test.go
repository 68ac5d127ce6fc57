package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodeck/cryptodeck-api/config"
	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// stubAuthHandler satisfies auth.Handler and records which route fired.
type stubAuthHandler struct{ hit string }

func (s *stubAuthHandler) mark(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.hit = name
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"route": name})
	}
}
func (s *stubAuthHandler) Signup(w http.ResponseWriter, r *http.Request)         { s.mark("signup")(w, r) }
func (s *stubAuthHandler) Login(w http.ResponseWriter, r *http.Request)          { s.mark("login")(w, r) }
func (s *stubAuthHandler) Logout(w http.ResponseWriter, r *http.Request)         { s.mark("logout")(w, r) }
func (s *stubAuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) { s.mark("forgot")(w, r) }
func (s *stubAuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) { s.mark("update")(w, r) }
func (s *stubAuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request)    { s.mark("verify")(w, r) }

type stubUserHandler struct{ hit string }

func (s *stubUserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	s.hit = "getProfile"
	w.WriteHeader(http.StatusOK)
}
func (s *stubUserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s.hit = "updateProfile"
	w.WriteHeader(http.StatusOK)
}

type stubFavoritesHandler struct{ hit string }

func (s *stubFavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	s.hit = "list"
	w.WriteHeader(http.StatusOK)
}
func (s *stubFavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	s.hit = "add"
	w.WriteHeader(http.StatusOK)
}
func (s *stubFavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s.hit = "remove"
	w.WriteHeader(http.StatusOK)
}

type stubCoinsHandler struct{ hit string }

func (s *stubCoinsHandler) GetCoins(w http.ResponseWriter, r *http.Request) {
	s.hit = "coins"
	api.WriteJSONResponse(w, r, http.StatusOK, json.RawMessage(`[]`))
}

// stubValidator accepts every token the codec signed.
type stubValidator struct{ err error }

func (s *stubValidator) GetUser(ctx context.Context, accessToken string) (*types.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.User{ID: "user-123", Email: "user@example.com"}, nil
}

type routerFixture struct {
	router http.Handler
	codec  *auth.TokenCodec
	auth   *stubAuthHandler
	user   *stubUserHandler
	favs   *stubFavoritesHandler
	coins  *stubCoinsHandler
}

func setupRouterTest(validator *stubValidator) *routerFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := auth.NewTokenCodec(config.JWTConfig{SecretKey: "router-test-secret", TokenTTL: time.Hour})

	f := &routerFixture{
		codec: codec,
		auth:  &stubAuthHandler{},
		user:  &stubUserHandler{},
		favs:  &stubFavoritesHandler{},
		coins: &stubCoinsHandler{},
	}
	f.router = SetupRouter(&Config{
		AuthHandler:      f.auth,
		UserHandler:      f.user,
		FavoritesHandler: f.favs,
		CoinsHandler:     f.coins,
		Gate:             auth.NewGate(codec, validator, logger),
	})
	return f
}

func TestSetupRouter_Welcome(t *testing.T) {
	f := setupRouterTest(&stubValidator{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Welcome to the Crypto API backend")
}

func TestSetupRouter_Echo(t *testing.T) {
	f := setupRouterTest(&stubValidator{})

	t.Run("reflects the body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"a":1,"nested":{"b":"c"}}`))
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"received":{"a":1,"nested":{"b":"c"}}}`, rr.Body.String())
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{broken`))
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "body must not be empty")
	})
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	f := setupRouterTest(&stubValidator{})

	testCases := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodPost, "/api/auth/signup", "signup"},
		{http.MethodPost, "/api/auth/login", "login"},
		{http.MethodPost, "/api/auth/logout", "logout"},
		{http.MethodPost, "/api/auth/forgot-password", "forgot"},
		{http.MethodGet, "/api/auth/verify-email", "verify"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, bytes.NewBufferString(`{}`))
			rr := httptest.NewRecorder()
			f.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, f.auth.hit)
		})
	}

	t.Run("coins needs no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/coins", nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "coins", f.coins.hit)
	})
}

func TestSetupRouter_ProtectedRoutes(t *testing.T) {
	protected := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodPut, "/api/auth/profile"},
		{http.MethodPost, "/api/auth/update-password"},
		{http.MethodGet, "/api/auth/favorites"},
		{http.MethodPost, "/api/auth/favorites"},
		{http.MethodDelete, "/api/auth/favorites/bitcoin"},
	}

	t.Run("blocked without a token", func(t *testing.T) {
		f := setupRouterTest(&stubValidator{})
		for _, tc := range protected {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			rr := httptest.NewRecorder()
			f.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.target)
			assert.Contains(t, rr.Body.String(), "Access token required")
		}
	})

	t.Run("reachable with a valid token", func(t *testing.T) {
		f := setupRouterTest(&stubValidator{})
		token, err := f.codec.Issue("user-123", "user@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "getProfile", f.user.hit)
	})

	t.Run("blocked when the backend session is gone", func(t *testing.T) {
		f := setupRouterTest(&stubValidator{err: errors.New("session revoked")})
		token, err := f.codec.Issue("user-123", "user@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/favorites", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid or expired token")
	})
}
