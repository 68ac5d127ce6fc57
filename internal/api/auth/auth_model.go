package auth

import "github.com/cryptodeck/cryptodeck-api/internal/types"

// SignupRequest represents the signup request body. Everything past email and
// password seeds the profile row and is optional.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Bio      string `json:"bio"`
}

// SignupResponse represents the signup response body. Warning is set when the
// account was created but the profile row was not - partial success is
// reported, not hidden.
type SignupResponse struct {
	User    *types.User `json:"user"`
	Message string      `json:"message"`
	Warning string      `json:"warning,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	User    *types.User    `json:"user"`
	Session *types.Session `json:"session"`
	Token   string         `json:"token"`
	Message string         `json:"message"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// MessageResponse is the generic success body for operations that only
// acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

type VerifyEmailResponse struct {
	Message string      `json:"message"`
	User    *types.User `json:"user"`
}

// SignupResult is what the service hands back to the handler: the created
// user plus the partial-success warning, if any.
type SignupResult struct {
	User    *types.User
	Warning string
}

// LoginResult bundles the backend session with the locally issued token.
type LoginResult struct {
	User    *types.User
	Session *types.Session
	Token   string
}
