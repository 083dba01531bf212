package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
)

// ValidatedClaims is what a successful claims validation yields.
type ValidatedClaims struct {
	Shop      string
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// ClaimsValidator cryptographically verifies a bearer token. The resolver
// treats it as a black box: any error is a ClaimsInvalid failure for that
// stage and the fallback chain may still run.
type ClaimsValidator interface {
	Validate(ctx context.Context, token string, r *http.Request) (ValidatedClaims, error)
}

// ClaimsValidatorFunc adapts a function to ClaimsValidator.
type ClaimsValidatorFunc func(ctx context.Context, token string, r *http.Request) (ValidatedClaims, error)

func (f ClaimsValidatorFunc) Validate(ctx context.Context, token string, r *http.Request) (ValidatedClaims, error) {
	return f(ctx, token, r)
}

var (
	ErrNoExpiry     = errors.New("identity: token has no exp claim")
	ErrClaimsNoShop = errors.New("identity: token shop claim is not a shop domain")
)

// SessionTokenValidator verifies POS session tokens with a jwtx.Verifier and
// maps the claims onto an identity.
type SessionTokenValidator struct {
	verifier jwtx.Verifier
}

func NewSessionTokenValidator(v jwtx.Verifier) *SessionTokenValidator {
	return &SessionTokenValidator{verifier: v}
}

func (v *SessionTokenValidator) Validate(_ context.Context, token string, _ *http.Request) (ValidatedClaims, error) {
	claims, err := v.verifier.Verify(token)
	if err != nil {
		return ValidatedClaims{}, err
	}

	exp := claims.ExpiresAtTime()
	if exp.IsZero() {
		return ValidatedClaims{}, ErrNoExpiry
	}

	shop, err := NormalizeShopDomain(claims.ShopURL())
	if err != nil {
		return ValidatedClaims{}, fmt.Errorf("%w: %q", ErrClaimsNoShop, claims.ShopURL())
	}

	return ValidatedClaims{
		Shop:      shop,
		UserID:    claims.Subject,
		SessionID: claims.SessionID(),
		ExpiresAt: exp,
	}, nil
}

var _ ClaimsValidator = (*SessionTokenValidator)(nil)
