package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite"
	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "shpss_test_secret"
	testAPIKey = "test-api-key"
	testShop   = "alpha.myshopify.com"
	posUA      = "Shopify POS/9.12.0 (iPad; iOS 17.4)"
)

type testEnv struct {
	router *Router
	shops  *service.ShopService
	notes  *service.CreditNoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sealer, err := cryptox.NewSealer(cryptox.MustDeriveKey([]byte(testSecret), cryptox.PurposeAccessTokenAtRest))
	require.NoError(t, err)

	logger := slogx.Discard()
	shops := service.NewShopService(st, sealer, logger)
	notes := service.NewCreditNoteService(st, logger)
	admin, err := service.NewAdminSessions(service.AdminSessionConfig{
		Secret: []byte("cookie-secret"),
		MaxAge: time.Hour,
	}, shops)
	require.NoError(t, err)

	verifier := jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
		Audience: []string{testAPIKey},
		Leeway:   5 * time.Second,
	})
	resolver := identity.NewResolver(
		identity.NewSessionTokenValidator(verifier),
		identity.NewTokenCache(nil, nil),
		identity.WithAdminSession(admin),
	)

	r := NewRouter("test", st, httpx.DefaultRateLimitProfiles(), nil, logger)
	r.Resolver = resolver
	r.VerifierReady = true
	r.ShopService = shops
	r.CreditNoteService = notes
	r.AdminSessions = admin
	r.ApplyRoutes()

	return &testEnv{router: r, shops: shops, notes: notes}
}

func (e *testEnv) install(t *testing.T, shop string) {
	t.Helper()
	_, err := e.shops.Install(context.Background(), shop, "shpat_test", []string{"read_customers"})
	require.NoError(t, err)
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionToken(t *testing.T, shop string, ttl time.Duration) string {
	t.Helper()
	c := jwtx.NewSessionClaims(shop, testAPIKey, "42", "sid-1", ttl, time.Now())
	tok, err := jwtx.NewSignerHS256([]byte(testSecret)).Sign(c)
	require.NoError(t, err)
	return tok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid token then cache hit", func(t *testing.T) {
		token := sessionToken(t, testShop, time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

		body := decode[authsdk.SessionResponse](t, rec)
		require.True(t, body.Resolved)
		require.Equal(t, testShop, body.ShopDomain)
		require.Equal(t, "42", body.UserID)
		require.Equal(t, "sid-1", body.SessionID)
		require.Equal(t, string(identity.StrategyClaimsValidated), body.Strategy)
		require.False(t, body.RefreshNeeded)

		req = httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		body = decode[authsdk.SessionResponse](t, env.do(req))
		require.Equal(t, string(identity.StrategyCacheHit), body.Strategy)
	})

	t.Run("near expiry asks for a refresh", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, testShop, 2*time.Minute))
		body := decode[authsdk.SessionResponse](t, env.do(req))
		require.True(t, body.Resolved)
		require.True(t, body.RefreshNeeded)
	})

	t.Run("missing header from a browser", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)

		body := decode[authsdk.ErrorResponse](t, rec)
		require.Equal(t, string(identity.NotApplicable), body.Failure)
		require.NotEmpty(t, body.Remediation)
		require.NotNil(t, body.Diagnostics)
	})

	t.Run("forged token from a POS extension falls back to the shop header", func(t *testing.T) {
		forged, err := jwtx.NewSignerHS256([]byte("wrong")).Sign(
			jwtx.NewSessionClaims("bravo.myshopify.com", testAPIKey, "1", "", time.Hour, time.Now()))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		req.Header.Set("User-Agent", posUA)
		req.Header.Set(identity.HeaderShopDomain, "Charlie.myshopify.com")
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[authsdk.SessionResponse](t, rec)
		require.Equal(t, "charlie.myshopify.com", body.ShopDomain)
		require.Equal(t, string(identity.StrategyFallbackShopHeader), body.Strategy)
		require.Empty(t, body.UserID)
	})

	t.Run("POS extension with nothing to go on", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("Authorization", "Bearer null")
		req.Header.Set("User-Agent", posUA)
		rec := env.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decode[authsdk.ErrorResponse](t, rec)
		require.Equal(t, string(identity.FallbackExhausted), body.Failure)
		require.Equal(t, string(identity.TroubleshootingCritical), body.TroubleshootingLevel)
	})

	t.Run("default shop is the last resort", func(t *testing.T) {
		env := newTestEnv(t)
		env.router.DefaultShop = "delta.myshopify.com"
		// Routes capture DefaultShop at registration.
		env.router.Mux = http.NewServeMux()
		env.router.ApplyRoutes()

		req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)
		req.Header.Set("X-Shopify-POS-Extension-Version", "1.4.0")
		body := decode[authsdk.SessionResponse](t, env.do(req))
		require.Equal(t, "delta.myshopify.com", body.ShopDomain)
		require.Equal(t, string(identity.StrategyFallbackDefault), body.Strategy)
	})
}

func TestCanceledRequest(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, testShop, time.Hour))
	rec := env.do(req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[authsdk.ErrorResponse](t, rec)
	require.Equal(t, authsdk.ErrorCodeCanceled, body.Error)
	require.Equal(t, string(identity.Canceled), body.Failure)
	require.Zero(t, env.router.Resolver.Cache().Len())
}

func TestTokenEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("status from bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/pos/token/status", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, testShop, time.Hour))
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[authsdk.TokenStatusResponse](t, rec)
		require.Equal(t, string(identity.LifecycleValid), body.Status)
		require.Greater(t, body.ExpiresIn, int64(3500))
		require.False(t, body.RefreshRecommended)
	})

	t.Run("status from form field", func(t *testing.T) {
		form := url.Values{"token": {sessionToken(t, testShop, -time.Minute)}}
		req := httptest.NewRequest(http.MethodPost, "/v1/pos/token/status", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		body := decode[authsdk.TokenStatusResponse](t, env.do(req))
		require.Equal(t, string(identity.LifecycleExpired), body.Status)
		require.True(t, body.RefreshRecommended)
	})

	t.Run("status without a token", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodPost, "/v1/pos/token/status", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidRequest, decode[authsdk.ErrorResponse](t, rec).Error)
	})

	t.Run("status rejects json bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/pos/token/status", strings.NewReader(`{"token":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, http.StatusBadRequest, env.do(req).Code)
	})

	t.Run("refresh for garbage", func(t *testing.T) {
		form := url.Values{"token": {"not-a-jwt"}}
		req := httptest.NewRequest(http.MethodPost, "/v1/pos/token/refresh", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		body := decode[authsdk.RefreshResponse](t, env.do(req))
		require.False(t, body.Success)
		require.True(t, body.RefreshNeeded)
	})

	t.Run("refresh for a fresh token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/pos/token/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, testShop, time.Hour))
		body := decode[authsdk.RefreshResponse](t, env.do(req))
		require.True(t, body.Success)
		require.False(t, body.RefreshNeeded)
	})
}

func TestCreditNotes(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, testShop)
	token := sessionToken(t, testShop, time.Hour)

	issue := func(t *testing.T, auth, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/v1/credit-notes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		return env.do(req)
	}

	t.Run("issue", func(t *testing.T) {
		rec := issue(t, "Bearer "+token, `{"code":"CN-1","amount":2500,"currency":"aud","customerId":"gid://shopify/Customer/7"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		note := decode[authsdk.CreditNote](t, rec)
		require.Equal(t, "CN-1", note.Code)
		require.Equal(t, "AUD", note.Currency)
		require.Equal(t, int64(2500), note.Balance)
		require.Equal(t, "active", note.Status)
	})

	t.Run("duplicate code", func(t *testing.T) {
		rec := issue(t, "Bearer "+token, `{"code":"CN-1","amount":100,"currency":"AUD"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, issue(t, "Bearer "+token, `{"code":`).Code)
		require.Equal(t, http.StatusBadRequest, issue(t, "Bearer "+token, `{"code":"CN-2","amount":0,"currency":"AUD"}`).Code)
	})

	t.Run("shop not installed", func(t *testing.T) {
		other := sessionToken(t, "bravo.myshopify.com", time.Hour)
		rec := issue(t, "Bearer "+other, `{"code":"CN-1","amount":100,"currency":"AUD"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("fallback identities cannot issue", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/credit-notes",
			strings.NewReader(`{"code":"CN-9","amount":100,"currency":"AUD"}`))
		req.Header.Set("User-Agent", posUA)
		req.Header.Set(identity.HeaderShopDomain, testShop)
		rec := env.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("list with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-notes?limit=10", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[authsdk.CreditNoteListResponse](t, rec)
		require.Equal(t, testShop, body.ShopDomain)
		require.False(t, body.Degraded)
		require.Len(t, body.CreditNotes, 1)
	})

	t.Run("list from a POS fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-notes", nil)
		req.Header.Set("User-Agent", posUA)
		req.Header.Set(identity.HeaderShopDomain, testShop)
		body := decode[authsdk.CreditNoteListResponse](t, env.do(req))
		require.Equal(t, testShop, body.ShopDomain)
		require.Len(t, body.CreditNotes, 1)
	})

	t.Run("list degrades instead of failing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-notes", nil)
		req.Header.Set("User-Agent", posUA)
		// The simplified profile ignores Referer hints.
		req.Header.Set("Referer", "https://admin.shopify.com/?shop="+testShop)
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[authsdk.CreditNoteListResponse](t, rec)
		require.True(t, body.Degraded)
		require.Empty(t, body.ShopDomain)
		require.NotNil(t, body.CreditNotes)
		require.Empty(t, body.CreditNotes)
	})

	t.Run("list rejects a bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-notes?limit=-1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		require.Equal(t, http.StatusBadRequest, env.do(req).Code)
	})
}

func TestAdminSessionFlow(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, testShop)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/session", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, testShop, time.Hour))
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, testShop, decode[authsdk.AdminSessionResponse](t, rec).ShopDomain)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	withCookies := func(req *http.Request) *http.Request {
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return req
	}

	t.Run("cookie resolves the shop", func(t *testing.T) {
		rec := env.do(withCookies(httptest.NewRequest(http.MethodGet, "/v1/pos/session", nil)))
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[authsdk.SessionResponse](t, rec)
		require.Equal(t, testShop, body.ShopDomain)
		require.Equal(t, string(identity.StrategyAdminSession), body.Strategy)
	})

	t.Run("cookie can issue credit notes", func(t *testing.T) {
		req := withCookies(httptest.NewRequest(http.MethodPost, "/v1/credit-notes",
			strings.NewReader(`{"code":"ADM-1","amount":100,"currency":"NZD"}`)))
		require.Equal(t, http.StatusCreated, env.do(req).Code)
	})

	t.Run("cookie cannot mint another cookie", func(t *testing.T) {
		rec := env.do(withCookies(httptest.NewRequest(http.MethodPost, "/v1/admin/session", nil)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("clear", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodDelete, "/v1/admin/session", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)

		cleared := rec.Result().Cookies()
		require.NotEmpty(t, cleared)
		require.Less(t, cleared[0].MaxAge, 0)
	})

	t.Run("uninstalled shop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/session", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, "bravo.myshopify.com", time.Hour))
		require.Equal(t, http.StatusNotFound, env.do(req).Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[authsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[authsdk.HealthResponse](t, rec)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Verifier)
	require.Equal(t, "0 entries", ready.Checks.TokenCache)

	env.router.VerifierReady = false
	env.router.Mux = http.NewServeMux()
	env.router.ApplyRoutes()
	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decode[authsdk.HealthResponse](t, rec).Status)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "posauth_")
}
