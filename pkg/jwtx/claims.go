package jwtx

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTokenTTL is how long the POS host mints session tokens for.
// Shopify issues them with a one minute lifetime, but nothing here depends on
// that beyond the test helpers.
const DefaultSessionTokenTTL = time.Minute

// Claims are the session-token claims issued by the POS host. The registered
// claims carry iss/aud/sub/exp/nbf/iat/jti, the rest are platform specific.
type Claims struct {
	jwt.RegisteredClaims

	// Destination is the shop URL the token was minted for, e.g.
	// "https://acme.myshopify.com".
	Destination string `json:"dest,omitempty"`

	// SID is the host session id. Not every surface sets it.
	SID string `json:"sid,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a shop. Only used by
// tests and the CLI, the real tokens come from the POS host.
func NewSessionClaims(shop, apiKey, subject, sid string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Subject:   subject,
			Audience:  jwt.ClaimStrings{apiKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Destination: "https://" + shop,
		SID:         sid,
	}
}

// ShopURL returns the claim that names the shop, dest first and iss second.
func (c *Claims) ShopURL() string {
	if c.Destination != "" {
		return c.Destination
	}
	return c.Issuer
}

// SessionID returns sid, or jti when the host did not set one.
func (c *Claims) SessionID() string {
	if c.SID != "" {
		return c.SID
	}
	return c.ID
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateDestination makes sure iss and dest point at the same shop host.
// A token with neither is rejected since it can't name a shop at all.
func (c *Claims) ValidateDestination() error {
	if c.Destination == "" && c.Issuer == "" {
		return ErrMissingShop
	}
	if c.Destination == "" || c.Issuer == "" {
		return nil
	}

	if hostOf(c.Destination) != hostOf(c.Issuer) {
		return ErrDestination
	}
	return nil
}

// ValidateExpiryAt ensures the token hasn't expired (exp) and isn't before
// nbf at the given instant, allowing leeway for clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// ExpiresAtTime returns exp as a time, zero when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(u.Hostname())
}
