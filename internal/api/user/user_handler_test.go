package user

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Profile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.Profile, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Profile), args.Error(1)
}

func setupUserHandlerTest() (*HandlerImpl, *MockUserService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := new(MockUserService)
	return NewHandlerImpl(service, logger), service
}

func withIdentity(req *http.Request) *http.Request {
	ident := &auth.Identity{
		UserID: "user-123",
		Email:  "user@example.com",
		Token:  "access-token",
		User:   &types.User{ID: "user-123", Email: "user@example.com"},
	}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), ident))
}

func TestHandlerImpl_GetProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, service := setupUserHandlerTest()
		profile := &types.Profile{ID: "user-123", FullName: "Existing User"}
		service.On("GetProfile", mock.Anything, "user-123").Return(profile, nil).Once()

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
		rr := httptest.NewRecorder()
		handler.GetProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "user-123", resp.User.ID)
		require.NotNil(t, resp.Profile)
		assert.Equal(t, "Existing User", resp.Profile.FullName)
		assert.Empty(t, resp.Message)
		service.AssertExpectations(t)
	})

	t.Run("missing row is 200 with null profile", func(t *testing.T) {
		handler, service := setupUserHandlerTest()
		service.On("GetProfile", mock.Anything, "user-123").Return(nil, types.ErrNotFound).Once()

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
		rr := httptest.NewRecorder()
		handler.GetProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Nil(t, resp.Profile)
		assert.Equal(t, "Profile has not been set up yet", resp.Message)
		service.AssertExpectations(t)
	})

	t.Run("no identity on context", func(t *testing.T) {
		handler, _ := setupUserHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		rr := httptest.NewRecorder()
		handler.GetProfile(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		handler, service := setupUserHandlerTest()
		service.On("GetProfile", mock.Anything, "user-123").Return(nil, errors.New("backend down")).Once()

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
		rr := httptest.NewRecorder()
		handler.GetProfile(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to retrieve profile")
		service.AssertExpectations(t)
	})
}

func TestHandlerImpl_UpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, service := setupUserHandlerTest()
		fullName := "Renamed User"
		updated := &types.Profile{ID: "user-123", FullName: fullName}
		service.On("UpdateProfile", mock.Anything, "user-123", mock.MatchedBy(func(p types.UpdateProfileParams) bool {
			return p.FullName != nil && *p.FullName == fullName && p.Bio == nil
		})).Return(updated, nil).Once()

		body, err := json.Marshal(map[string]string{"fullName": fullName})
		require.NoError(t, err)
		req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body)))
		rr := httptest.NewRecorder()
		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp UpdateProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Profile updated successfully", resp.Message)
		require.NotNil(t, resp.Profile)
		assert.Equal(t, fullName, resp.Profile.FullName)
		service.AssertExpectations(t)
	})

	t.Run("no identity on context", func(t *testing.T) {
		handler, _ := setupUserHandlerTest()

		req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()
		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := setupUserHandlerTest()

		req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewBufferString("{oops")))
		rr := httptest.NewRecorder()
		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("profile row missing", func(t *testing.T) {
		handler, service := setupUserHandlerTest()
		service.On("UpdateProfile", mock.Anything, "user-123", mock.Anything).
			Return(nil, types.ErrNotFound).Once()

		req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/auth/profile",
			bytes.NewBufferString(`{"bio":"hello"}`)))
		rr := httptest.NewRecorder()
		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Profile does not exist")
		service.AssertExpectations(t)
	})
}
