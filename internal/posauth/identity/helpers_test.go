package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "shpss_test_secret"
	testAPIKey = "test-api-key"
	testShop   = "testshop.myshopify.com"

	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	uaPOS     = "Shopify POS/9.12.0 (Android 14; Pixel 8)"

	extensionOrigin = "https://extensions.shopifycdn.com"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: epoch} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// manualScheduler records AfterFunc calls; tests fire them explicitly.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) identity.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Pending() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*manualTimer(nil), s.timers...)
}

func (s *manualScheduler) FireAll() {
	for _, t := range s.Pending() {
		if !t.stopped {
			t.f()
		}
	}
}

// countingValidator hands back fixed claims and counts how often it ran.
type countingValidator struct {
	calls  atomic.Int32
	claims identity.ValidatedClaims
	err    error
}

func (v *countingValidator) Validate(context.Context, string, *http.Request) (identity.ValidatedClaims, error) {
	v.calls.Add(1)
	return v.claims, v.err
}

func (v *countingValidator) Calls() int { return int(v.calls.Load()) }

type stubAdmin struct {
	shop string
	err  error
}

func (a stubAdmin) Authenticate(*http.Request) (string, error) { return a.shop, a.err }

func newRequest(target string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

// signToken mints a real HS256 session token for testShop expiring ttl
// after the clock's current time.
func signToken(t *testing.T, clock identity.Clock, ttl time.Duration) string {
	t.Helper()
	claims := jwtx.NewSessionClaims(testShop, testAPIKey, "42", "sid-1", ttl, clock.Now())
	tok, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(claims)
	require.NoError(t, err)
	return tok
}

func newSessionValidator(clock identity.Clock) *identity.SessionTokenValidator {
	v := jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
		Audience: []string{testAPIKey},
		Now:      clock.Now,
	})
	return identity.NewSessionTokenValidator(v)
}
