package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cryptodeck/cryptodeck-api/app/observability/metrics"
	"github.com/cryptodeck/cryptodeck-api/internal/identity"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// IdentityAPI is the slice of the identity backend client the auth service
// needs.
type IdentityAPI interface {
	SignUp(ctx context.Context, params identity.SignUpParams) (*types.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdateUserPassword(ctx context.Context, accessToken, newPassword string) (*types.User, error)
	VerifyOTP(ctx context.Context, tokenHash, otpType string) (*types.User, error)
}

var _ IdentityAPI = (*identity.Client)(nil)

// ProfileStore writes the profile row that accompanies a new account.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile types.Profile) error
}

var _ AuthService = (*ServiceImpl)(nil)

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	VerifyEmail(ctx context.Context, tokenHash, otpType string) (*types.User, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	backend       IdentityAPI
	profiles      ProfileStore
	codec         *TokenCodec
	clientBaseURL string
}

func NewService(backend IdentityAPI, profiles ProfileStore, codec *TokenCodec, clientBaseURL string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		backend:       backend,
		profiles:      profiles,
		codec:         codec,
		clientBaseURL: clientBaseURL,
	}
}

// Signup creates the account at the backend, then writes the profile row.
// The second step failing does not undo the first: the account exists, so
// signup still succeeds, with the failure surfaced in SignupResult.Warning.
func (s *ServiceImpl) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	l := s.logger.With(slog.String("method", "Signup"))
	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "signup")))

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", types.ErrInvalidInput)
	}

	params := identity.SignUpParams{
		Email:    req.Email,
		Password: req.Password,
		Data:     map[string]any{"full_name": req.FullName},
	}
	user, err := s.backend.SignUp(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("signup rejected: %w", err)
	}

	now := time.Now().UTC()
	profile := types.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Country:   req.Country,
		City:      req.City,
		Bio:       req.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := &SignupResult{User: user}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		l.WarnContext(ctx, "Account created but profile row write failed",
			slog.String("userID", user.ID), slog.Any("error", err))
		result.Warning = "Account created, but the profile could not be initialized. It can be completed later."
	}
	return result, nil
}

// Login checks credentials with the backend and issues a local session token
// alongside the backend session.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "login")))

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", types.ErrInvalidInput)
	}

	signIn, err := s.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login rejected: %w", err)
	}

	token, err := s.codec.Issue(signIn.User.ID, signIn.User.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:    &signIn.User,
		Session: &signIn.Session,
		Token:   token,
	}, nil
}

// Logout revokes the backend session behind the presented token. Presented
// tokens die with it: the gate re-checks the backend on every request.
func (s *ServiceImpl) Logout(ctx context.Context, accessToken string) error {
	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "logout")))
	if err := s.backend.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("logout rejected: %w", err)
	}
	return nil
}

func (s *ServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", types.ErrInvalidInput)
	}
	redirectTo := s.clientBaseURL + "/reset-password"
	if err := s.backend.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return fmt.Errorf("password reset request rejected: %w", err)
	}
	return nil
}

func (s *ServiceImpl) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", types.ErrInvalidInput)
	}
	if _, err := s.backend.UpdateUserPassword(ctx, accessToken, newPassword); err != nil {
		return fmt.Errorf("password update rejected: %w", err)
	}
	return nil
}

func (s *ServiceImpl) VerifyEmail(ctx context.Context, tokenHash, otpType string) (*types.User, error) {
	if tokenHash == "" || otpType == "" {
		return nil, fmt.Errorf("%w: token and type are required", types.ErrInvalidInput)
	}
	user, err := s.backend.VerifyOTP(ctx, tokenHash, otpType)
	if err != nil {
		return nil, fmt.Errorf("email verification rejected: %w", err)
	}
	return user, nil
}
