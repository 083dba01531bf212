package authsdk

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
)

// TokenSource fetches a fresh Shopify session token, e.g. by calling the
// POS extension's idToken API.
type TokenSource func(ctx context.Context) (string, error)

// refreshBuffer is how long before exp a cached token is replaced.
const refreshBuffer = 30 * time.Second

// Session makes calls with a session token from a TokenSource. The token is
// reused until it is close to expiry, the server rejects it, or the server
// says a refresh is needed. Sessions are safe for concurrent use.
type Session struct {
	client  *SDKClient
	source  TokenSource
	headers map[string]string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewSession creates a Session. headers are sent with every request; POS
// callers should set User-Agent and X-Shopify-POS-Extension-Version so the
// service can classify them.
func (c *SDKClient) NewSession(source TokenSource, headers map[string]string) *Session {
	return &Session{
		client:  c,
		source:  source,
		headers: headers,
	}
}

// getValidToken returns the cached token or asks the source for a new one.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.token != "" && time.Now().Before(s.expiresAt) {
		token := s.token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have fetched one while we waited.
	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, err := s.source(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = time.Time{}
	if claims, err := jwtx.DecodePayload(token); err == nil {
		if exp := claims.ExpiresAtTime(); !exp.IsZero() {
			s.expiresAt = exp.Add(-refreshBuffer)
		}
	}
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}
