package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenValidator(t *testing.T) {
	clock := newTestClock()
	v := newSessionValidator(clock)
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		claims, err := v.Validate(ctx, signToken(t, clock, time.Minute), nil)
		require.NoError(t, err)
		require.Equal(t, testShop, claims.Shop)
		require.Equal(t, "42", claims.UserID)
		require.Equal(t, "sid-1", claims.SessionID)
		require.WithinDuration(t, clock.Now().Add(time.Minute), claims.ExpiresAt, 0)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := v.Validate(ctx, signToken(t, clock, -time.Minute), nil)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		c := jwtx.NewSessionClaims(testShop, testAPIKey, "42", "", time.Minute, clock.Now())
		tok, err := jwtx.NewSignerHS256([]byte("other")).Sign(c)
		require.NoError(t, err)

		_, err = v.Validate(ctx, tok, nil)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("shop claim not a shop domain", func(t *testing.T) {
		c := jwtx.NewSessionClaims("evil.example.com", testAPIKey, "42", "", time.Minute, clock.Now())
		tok, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(c)
		require.NoError(t, err)

		_, err = v.Validate(ctx, tok, nil)
		require.ErrorIs(t, err, identity.ErrClaimsNoShop)
	})

	t.Run("no exp", func(t *testing.T) {
		c := jwtx.NewSessionClaims(testShop, testAPIKey, "42", "", time.Minute, clock.Now())
		c.ExpiresAt = nil
		tok, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(c)
		require.NoError(t, err)

		_, err = v.Validate(ctx, tok, nil)
		require.ErrorIs(t, err, identity.ErrNoExpiry)
	})
}
