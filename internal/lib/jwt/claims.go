// Package jwt implements generation and parsing of JWT tokens with the
// custom claim fields the service needs: username, role and user id.
package jwt

import (
	"time"
)

// Maker describes the interface for generating and parsing JWT tokens.
type Maker interface {
	GenerateToken(userID int64, username, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker using an HS256 secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from the secret key and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
