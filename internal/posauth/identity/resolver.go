package identity

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/creditpos/internal/posauth/metrics"
	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
)

const headerAuthorization = "Authorization"

// AdminSessionAuth authenticates callers that are not POS extensions,
// usually from a cookie session. It returns the shop the session belongs to.
type AdminSessionAuth interface {
	Authenticate(r *http.Request) (string, error)
}

// Profile selects which fallback stages run and how exhaustion is reported.
type Profile struct {
	Name   string
	Stages Stages

	// GracefulDegradation turns an exhausted fallback chain into a Degraded
	// result so the caller can answer with an empty result set.
	GracefulDegradation bool
}

// FullProfile runs the whole chain and fails hard on exhaustion.
func FullProfile() Profile {
	return Profile{Name: "full", Stages: AllStages()}
}

// SimplifiedProfile skips the alternate header and Referer stages and
// degrades instead of failing.
func SimplifiedProfile() Profile {
	stages := AllStages()
	stages.StandardHeader = false
	stages.Referer = false
	return Profile{Name: "simplified", Stages: stages, GracefulDegradation: true}
}

// Resolver turns a request into a Result. It is safe for concurrent use; the
// cache is the only shared state.
type Resolver struct {
	validator ClaimsValidator
	cache     *TokenCache
	admin     AdminSessionAuth
	markers   DeviceMarkers
	profile   Profile
	clock     Clock
}

type Option func(*Resolver)

func WithProfile(p Profile) Option { return func(r *Resolver) { r.profile = p } }

func WithAdminSession(a AdminSessionAuth) Option { return func(r *Resolver) { r.admin = a } }

func WithDeviceMarkers(m DeviceMarkers) Option { return func(r *Resolver) { r.markers = m } }

// WithClock sets the clock for lifecycle queries. The cache has its own.
func WithClock(c Clock) Option { return func(r *Resolver) { r.clock = c } }

func NewResolver(validator ClaimsValidator, cache *TokenCache, opts ...Option) *Resolver {
	r := &Resolver{
		validator: validator,
		cache:     cache,
		markers:   DefaultDeviceMarkers(),
		profile:   FullProfile(),
		clock:     SystemClock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithProfile returns a resolver sharing r's cache and collaborators but
// running profile p.
func (r *Resolver) WithProfile(p Profile) *Resolver {
	cp := *r
	cp.profile = p
	return &cp
}

// Profile returns the active profile.
func (r *Resolver) Profile() Profile { return r.profile }

// Cache returns the shared token cache.
func (r *Resolver) Cache() *TokenCache { return r.cache }

// Resolve runs the pipeline for req. defaultShop feeds the last fallback
// stage and may be empty. Resolve never panics on user input and always
// returns a Result.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request, defaultShop string) Result {
	res := r.resolve(ctx, req, defaultShop)
	r.observe(ctx, res)
	return res
}

func (r *Resolver) resolve(ctx context.Context, req *http.Request, defaultShop string) Result {
	dev := r.markers.ClassifyRequest(req)
	diag := &Diagnostics{
		Device:           dev,
		UserAgent:        DescribeUserAgent(req.UserAgent()),
		ExtensionVersion: req.Header.Get(HeaderExtensionVersion),
		LocationID:       req.Header.Get(HeaderLocationID),
	}

	hdr := ExtractBearer(req.Header.Get(headerAuthorization), len(req.Header.Values(headerAuthorization)) > 0)
	diag.HasAuthHeader = hdr.HasAuthHeader
	diag.HasBearerPrefix = hdr.HasBearerPrefix

	// primary is the first failure, which is what the caller sees in Error.
	primary, primaryMsg := FailureNone, ""
	note := func(k FailureKind, msg string) {
		diag.failed(k)
		if primary == FailureNone {
			primary, primaryMsg = k, msg
		}
	}

	if !hdr.Valid {
		diag.HeaderError = hdr.Error
		diag.SuspiciousPattern = hdr.Pattern
		note(hdr.Kind, hdr.Error)
	} else {
		if res, ok := r.resolveBearer(ctx, req, hdr.Token, diag, note); ok {
			return res
		}
	}

	if err := ctx.Err(); err != nil {
		return canceled(err, diag)
	}

	if !dev.IsPOSExtension {
		return r.resolveAdmin(req, diag, note, primaryMsg)
	}

	fb, err := RunFallback(ctx, req, dev, r.profile.Stages, defaultShop)
	diag.Attempts = fb.Attempts
	for _, a := range fb.Attempts {
		metrics.FallbackAttempts.WithLabelValues(string(a.Stage), string(a.Outcome)).Inc()
		if a.Outcome != AttemptSkipped && !slices.Contains(diag.Strategies, a.Stage.Strategy()) {
			diag.tried(a.Stage.Strategy())
		}
	}
	if err != nil {
		return canceled(err, diag)
	}
	if fb.Matched {
		return succeed(fb.Stage.Strategy(), Identity{Shop: fb.Shop}, diag)
	}

	note(FallbackExhausted, "no shop identity found")
	msg := "no shop identity found"
	if primaryMsg != "" {
		msg = primaryMsg + ": " + msg
	}
	res := fail(FallbackExhausted, msg, diag)
	res.Degraded = r.profile.GracefulDegradation
	return res
}

// resolveBearer runs the structural check, the cache and the claims
// validator. ok is false when resolution should continue to the fallbacks.
func (r *Resolver) resolveBearer(
	ctx context.Context,
	req *http.Request,
	token string,
	diag *Diagnostics,
	note func(FailureKind, string),
) (Result, bool) {
	diag.TokenFingerprint = cryptox.FingerprintToken(token)

	st, err := jwtx.Inspect(token)
	if err != nil {
		diag.StructuralError = err.Error()
		note(StructuralJWTMalformed, "malformed JWT")
		return Result{}, false
	}
	diag.TokenKind = string(st.Kind)

	diag.tried(StrategyCacheHit)
	if entry, ok := r.cache.Get(token); ok {
		near := r.cache.IsNearExpiry(entry)
		if near {
			metrics.CacheEvents.WithLabelValues(metrics.CacheNearHit).Inc()
		} else {
			metrics.CacheEvents.WithLabelValues(metrics.CacheHit).Inc()
		}
		res := succeed(StrategyCacheHit, Identity{
			Shop:      entry.Shop,
			UserID:    entry.UserID,
			SessionID: entry.SessionID,
			ExpiresAt: entry.ExpiresAt,
		}, diag)
		res.RefreshNeeded = near
		return res, true
	}

	if err := ctx.Err(); err != nil {
		return canceled(err, diag), true
	}

	diag.tried(StrategyClaimsValidated)
	claims, err := r.validator.Validate(ctx, token, req)
	if err != nil {
		diag.ClaimsError = err.Error()
		note(ClaimsInvalid, "invalid session token")
		return Result{}, false
	}

	// Nothing has been written yet, so an abandoned request leaves no trace.
	if err := ctx.Err(); err != nil {
		return canceled(err, diag), true
	}

	entry := NewCacheEntry(claims)
	r.cache.Put(token, entry)

	res := succeed(StrategyClaimsValidated, Identity{
		Shop:      claims.Shop,
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		ExpiresAt: claims.ExpiresAt,
	}, diag)
	res.RefreshNeeded = r.cache.IsNearExpiry(entry)
	return res, true
}

func (r *Resolver) resolveAdmin(
	req *http.Request,
	diag *Diagnostics,
	note func(FailureKind, string),
	primaryMsg string,
) Result {
	if r.admin != nil {
		diag.tried(StrategyAdminSession)
		shop, err := r.admin.Authenticate(req)
		if err == nil {
			shop, err = NormalizeShopDomain(shop)
		}
		if err == nil {
			return succeed(StrategyAdminSession, Identity{Shop: shop}, diag)
		}
		diag.AdminSessionError = err.Error()
	}

	note(NotApplicable, "")
	msg := primaryMsg
	if msg == "" {
		msg = "no admin session"
	}
	return fail(NotApplicable, msg, diag)
}

func canceled(err error, diag *Diagnostics) Result {
	diag.failed(Canceled)
	msg := "request canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request deadline exceeded"
	}
	return fail(Canceled, msg, diag)
}

func (r *Resolver) observe(ctx context.Context, res Result) {
	outcome := "resolved"
	switch {
	case res.Degraded:
		outcome = "degraded"
	case !res.Resolved:
		outcome = "unresolved"
	}
	metrics.Resolutions.WithLabelValues(strings.ToLower(string(res.Strategy)), outcome).Inc()
	if !res.Resolved {
		metrics.Failures.WithLabelValues(string(res.Failure)).Inc()
	}

	log := slogx.FromContext(ctx).With(
		"profile", r.profile.Name,
		"strategy", res.Strategy,
		"resolved", res.Resolved,
	)
	if d := res.Diagnostics; d != nil {
		log = log.With(
			"token_fp", d.TokenFingerprint,
			"ios", d.Device.IsIOSDevice,
			"pos_extension", d.Device.IsPOSExtension,
		)
	}

	switch {
	case res.Resolved && res.Strategy.IsFallback():
		log.Info("identity resolved via fallback", "shop", res.ShopDomain)
	case res.Resolved:
		log.Debug("identity resolved", "shop", res.ShopDomain, "refresh_needed", res.RefreshNeeded)
	case res.Failure == FallbackExhausted:
		log.Warn("identity fallback exhausted", "error", res.Error, "degraded", res.Degraded)
	default:
		log.Info("identity unresolved", "failure", res.Failure, "error", res.Error)
	}
}
