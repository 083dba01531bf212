package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: []string{"api-key-1", "api-key-2"},
		},
	}

	t.Run("contains match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"api-key-1"}))
	})

	t.Run("no match", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateAudience([]string{"other"}), jwtx.ErrAudience)
	})

	t.Run("empty expected list", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience(nil))
	})
}

func TestValidateDestination(t *testing.T) {
	t.Run("matching hosts", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "https://acme.myshopify.com/admin"},
			Destination:      "https://acme.myshopify.com",
		}
		require.NoError(t, c.ValidateDestination())
	})

	t.Run("host mismatch", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "https://evil.myshopify.com/admin"},
			Destination:      "https://acme.myshopify.com",
		}
		require.ErrorIs(t, c.ValidateDestination(), jwtx.ErrDestination)
	})

	t.Run("only dest", func(t *testing.T) {
		c := &jwtx.Claims{Destination: "https://acme.myshopify.com"}
		require.NoError(t, c.ValidateDestination())
		require.Equal(t, "https://acme.myshopify.com", c.ShopURL())
	})

	t.Run("no shop at all", func(t *testing.T) {
		require.ErrorIs(t, (&jwtx.Claims{}).ValidateDestination(), jwtx.ErrMissingShop)
	})
}

func TestShopURLFallsBackToIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "https://acme.myshopify.com/admin"}}
	require.Equal(t, "https://acme.myshopify.com/admin", c.ShopURL())
}

func TestSessionIDFallsBackToJTI(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"}}
	require.Equal(t, "jti-1", c.SessionID())

	c.SID = "sid-1"
	require.Equal(t, "sid-1", c.SessionID())
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		require.NoError(t, claims.ValidateExpiryAt(now, 0))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiryAt(now, 0), jwtx.ErrExpired)
	})

	t.Run("valid with leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
			},
		}
		require.NoError(t, claims.ValidateExpiryAt(now, 30*time.Second))
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiryAt(now, 0), jwtx.ErrNotYetValid)
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		require.NoError(t, (&jwtx.Claims{}).ValidateExpiryAt(now, 0))
	})
}
