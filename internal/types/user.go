package types

import "time"

// User is the account record owned by the identity backend. It is never
// created or mutated locally; the backend assigns the ID.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Session is the backend-managed session returned at login, relayed to the
// client untouched.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Profile mirrors part of the user record into a row keyed by the same
// identifier, plus the mutable fields the account record does not carry.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Bio       string    `json:"bio"`
	Website   string    `json:"website"`
	Twitter   string    `json:"twitter"`
	GitHub    string    `json:"github"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileParams carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileParams struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Country  *string `json:"country"`
	City     *string `json:"city"`
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
	Twitter  *string `json:"twitter"`
	GitHub   *string `json:"github"`
}
