package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cryptodeck/cryptodeck-api/config"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the payload of a session token: who the holder is, nothing more.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed session tokens. The signing secret is
// mandatory configuration; config validation rejects an empty one before this
// is ever constructed.
type TokenCodec struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	if cfg.SecretKey == "" {
		panic("token codec constructed without a signing secret")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{
		secretKey: []byte(cfg.SecretKey),
		ttl:       ttl,
		issuer:    cfg.Issuer,
	}
}

// Issue signs a token carrying the user identifier and email, expiring
// TTL from now.
func (c *TokenCodec) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify decodes a token and checks signature and expiry. Failures collapse
// into the two cases the gate distinguishes: expired and malformed.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, types.ErrTokenExpired
		}
		return nil, types.ErrTokenMalformed
	}
	if !token.Valid || claims.UserID == "" {
		return nil, types.ErrTokenMalformed
	}
	return claims, nil
}
