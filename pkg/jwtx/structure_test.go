package jwtx_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	token, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(
		jwtx.NewSessionClaims(testShop, testAPIKey, "1", "", time.Minute, fixedNow()))
	require.NoError(t, err)

	t.Run("signed session token is a JWT", func(t *testing.T) {
		s, err := jwtx.Inspect(token)
		require.NoError(t, err)
		require.Equal(t, jwtx.KindJWT, s.Kind)
		require.Equal(t, "HS256", s.Header.Alg)
	})

	t.Run("opaque token", func(t *testing.T) {
		s, err := jwtx.Inspect("shpat_0123456789abcdef")
		require.NoError(t, err)
		require.Equal(t, jwtx.KindOther, s.Kind)
	})

	t.Run("three segments that aren't JWT-shaped", func(t *testing.T) {
		s, err := jwtx.Inspect("abc.def.ghi")
		require.NoError(t, err)
		require.Equal(t, jwtx.KindOther, s.Kind)
	})

	t.Run("JWT-looking header that won't decode", func(t *testing.T) {
		_, err := jwtx.Inspect("eyJ!!!.e30.sig")
		require.ErrorIs(t, err, jwtx.ErrMalformedJWT)

		var de *jwtx.DecodeError
		require.ErrorAs(t, err, &de)
		require.Equal(t, "header", de.Segment)
	})

	t.Run("JWT-looking token with a broken payload", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
		_, err := jwtx.Inspect(header + ".%%%%.sig")
		require.ErrorIs(t, err, jwtx.ErrMalformedJWT)

		var de *jwtx.DecodeError
		require.ErrorAs(t, err, &de)
		require.Equal(t, "payload", de.Segment)
	})
}

func TestDecodePayload(t *testing.T) {
	now := fixedNow()
	token, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(
		jwtx.NewSessionClaims(testShop, testAPIKey, "7", "", 200*time.Second, now))
	require.NoError(t, err)

	c, err := jwtx.DecodePayload(token)
	require.NoError(t, err)
	require.Equal(t, now.Add(200*time.Second).Unix(), c.ExpiresAtTime().Unix())
	require.Equal(t, "7", c.Subject)

	_, err = jwtx.DecodePayload("one.two")
	require.ErrorIs(t, err, jwtx.ErrMalformedJWT)
}
