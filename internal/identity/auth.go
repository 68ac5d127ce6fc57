package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

// SignUpParams is the account-creation payload. Data lands in the backend's
// user metadata.
type SignUpParams struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignInResult is what a successful password sign-in returns: the account
// record plus the backend-managed session.
type SignInResult struct {
	User    types.User
	Session types.Session
}

type sessionEnvelope struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int        `json:"expires_in"`
	RefreshToken string     `json:"refresh_token"`
	User         types.User `json:"user"`
}

// SignUp creates an account. The backend sends the confirmation email.
func (c *Client) SignUp(ctx context.Context, params SignUpParams) (*types.User, error) {
	var user types.User
	if err := c.call(ctx, http.MethodPost, "/auth/v1/signup", nil, "", nil, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignInWithPassword checks credentials and returns the account plus session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	query := url.Values{"grant_type": []string{"password"}}
	body := map[string]string{"email": email, "password": password}

	var env sessionEnvelope
	if err := c.call(ctx, http.MethodPost, "/auth/v1/token", query, "", nil, body, &env); err != nil {
		return nil, err
	}
	return &SignInResult{
		User: env.User,
		Session: types.Session{
			AccessToken:  env.AccessToken,
			TokenType:    env.TokenType,
			ExpiresIn:    env.ExpiresIn,
			RefreshToken: env.RefreshToken,
		},
	}, nil
}

// SignOut revokes the session behind the presented token. After this the
// token fails GetUser, which is what actually locks it out of the gate.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.call(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil, nil)
}

// GetUser resolves the account behind an access token. The backend shares the
// JWT signing secret, so tokens issued locally are accepted here; a revoked
// session or deleted account comes back as an APIError.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*types.User, error) {
	var user types.User
	if err := c.call(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPasswordForEmail asks the backend to send a reset email pointing at
// redirectTo.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	body := map[string]string{"email": email}
	return c.call(ctx, http.MethodPost, "/auth/v1/recover", query, "", nil, body, nil)
}

// UpdateUserPassword sets a new password on the account behind accessToken.
func (c *Client) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) (*types.User, error) {
	body := map[string]string{"password": newPassword}
	var user types.User
	if err := c.call(ctx, http.MethodPut, "/auth/v1/user", nil, accessToken, nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyOTP confirms an emailed one-time token (signup confirmation,
// recovery, email change - otpType picks which).
func (c *Client) VerifyOTP(ctx context.Context, tokenHash, otpType string) (*types.User, error) {
	body := map[string]string{"token_hash": tokenHash, "type": otpType}
	var env sessionEnvelope
	if err := c.call(ctx, http.MethodPost, "/auth/v1/verify", nil, "", nil, body, &env); err != nil {
		return nil, err
	}
	if env.User.ID == "" {
		return nil, fmt.Errorf("identity backend verify response carried no user")
	}
	return &env.User, nil
}
