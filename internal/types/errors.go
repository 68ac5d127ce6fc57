package types

import "errors"

// Sentinel errors used across services. Handlers classify these with
// errors.Is and map them onto HTTP status codes.
var (
	ErrNotFound     = errors.New("requested item not found")
	ErrConflict     = errors.New("item already exists or conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream service unavailable")

	// Token codec failures. Both map to 403 at the auth gate.
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
)
