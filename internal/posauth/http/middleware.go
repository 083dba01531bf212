package http

import (
	"context"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
)

type resultKey struct{}

// ResolveIdentity runs resolver for every request and stores the Result in
// the request context. Unresolved requests are answered here unless the
// resolver's profile degraded them, in which case the handler decides.
func ResolveIdentity(resolver *identity.Resolver, defaultShop string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := resolver.Resolve(r.Context(), r, defaultShop)
			if !res.Resolved && !res.Degraded {
				writeIdentityError(w, res)
				return
			}

			ctx := context.WithValue(r.Context(), resultKey{}, res)
			if res.Resolved {
				ctx = httpx.WithShop(ctx, res.ShopDomain, res.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResultFromContext returns the Result stored by ResolveIdentity.
func ResultFromContext(ctx context.Context) (identity.Result, bool) {
	res, ok := ctx.Value(resultKey{}).(identity.Result)
	return res, ok
}

// RequireBearer only admits identities proven by a session token.
func RequireBearer() httpx.Middleware {
	return requireStrategy(
		"a valid session token is required",
		identity.StrategyClaimsValidated,
		identity.StrategyCacheHit,
	)
}

// RequireVerified admits session token and admin session identities.
// Fallback identities come from unauthenticated hints and are read-only.
func RequireVerified() httpx.Middleware {
	return requireStrategy(
		"a valid session token or admin session is required",
		identity.StrategyClaimsValidated,
		identity.StrategyCacheHit,
		identity.StrategyAdminSession,
	)
}

func requireStrategy(desc string, allowed ...identity.Strategy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := ResultFromContext(r.Context())
			if !ok || !res.Resolved || !slices.Contains(allowed, res.Strategy) {
				httpx.WriteBearerError(w, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, desc,
					authsdk.ErrorResponse{
						Error:            authsdk.ErrorCodeInvalidToken,
						ErrorDescription: desc,
					})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeIdentityError answers an unresolved Result. Cancellation is a 503;
// everything else is a bearer challenge carrying the remediation steps.
func writeIdentityError(w http.ResponseWriter, res identity.Result) {
	body := authsdk.ErrorResponse{
		Error:                authsdk.ErrorCodeInvalidToken,
		ErrorDescription:     res.Error,
		Failure:              string(res.Failure),
		Remediation:          res.Remediation,
		TroubleshootingLevel: string(res.TroubleshootingLevel),
	}
	if res.Diagnostics != nil {
		body.Diagnostics = res.Diagnostics
	}

	if res.Failure == identity.Canceled {
		body.Error = authsdk.ErrorCodeCanceled
		httpx.WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	httpx.WriteBearerError(w, http.StatusUnauthorized, body.Error, res.Error, body)
}
