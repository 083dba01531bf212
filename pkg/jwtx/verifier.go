package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Audience values the token must contain (claims.aud). For session tokens
	// this is the app API key. Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	// Because time sync is never perfect.
	Leeway time.Duration

	// Now overrides the wall clock, mostly for tests.
	Now func() time.Time
}

func (o VerifyOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrMalformedJWT = errors.New("jwtx: malformed JWT")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrNoSecret     = errors.New("jwtx: no signing secret configured")

	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrDestination  = errors.New("jwtx: issuer and destination mismatch")
	ErrMissingShop  = errors.New("jwtx: token names no shop")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
