package jwtx

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer mints tokens the same way the POS host does. We never hand
// these out in production, it exists so tests and the CLI can produce
// realistic session tokens.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer for the given shared secret.
func NewSignerHS256(secret []byte) *HS256Signer {
	return &HS256Signer{secret: secret}
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign serialises and signs the claims.
func (s *HS256Signer) Sign(c Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

var _ Signer = (*HS256Signer)(nil)
