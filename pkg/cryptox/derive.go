package cryptox

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the size of every key DeriveKey hands out (AES-256 / HMAC-SHA256).
const KeySize = 32

// Purposes for derived keys. Changing one of these invalidates whatever was
// protected with the old key, so don't.
const (
	PurposeAccessTokenAtRest = "creditpos/access-token-at-rest/v1"
	PurposeSessionCookieHash = "creditpos/session-cookie-hash/v1"
	PurposeSessionCookieEnc  = "creditpos/session-cookie-enc/v1"
)

var ErrEmptySecret = errors.New("cryptox: empty secret")

// DeriveKey expands one configured secret into an independent 32-byte key
// per purpose with HKDF-SHA256.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("cryptox: derive %s: %w", purpose, err)
	}
	return key, nil
}

// MustDeriveKey is DeriveKey for startup code paths.
func MustDeriveKey(secret []byte, purpose string) []byte {
	key, err := DeriveKey(secret, purpose)
	if err != nil {
		panic(err)
	}
	return key
}
