package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/internal/posauth/metrics"
	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"

	_ "github.com/aussiebroadwan/creditpos/api/posauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	limits       httpx.RateLimitProfiles

	// Resolver runs the full profile. The credit note listing derives a
	// simplified resolver from it that shares the token cache.
	Resolver    *identity.Resolver
	DefaultShop string

	// VerifierReady is false when no app secret is configured, in which
	// case every bearer token fails claims validation.
	VerifierReady bool

	ShopService       *service.ShopService
	CreditNoteService *service.CreditNoteService
	AdminSessions     *service.AdminSessions
}

func NewRouter(
	buildVersion string,
	st store.Store,
	limits httpx.RateLimitProfiles,
	corsOrigins []string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limits:       limits.WithDefaults(),
		logger:       logger,
	}

	// Logging wraps CORS so preflights show up in the request log.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPOS()
	r.registerCreditNotes()
	r.registerAdminSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CreditPOS Identity Service API
//	@version		0.1.0
//	@description	Resolves the Shopify shop behind POS UI extension and embedded admin requests, and serves the credit notes of that shop.
//	@description
//	@description				Session tokens are HS256 JWTs signed with the app's API secret. When a token is missing or broken, POS extension callers fall back to shop hints in headers and query parameters.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/creditpos
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shopify session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPOS() {
	// GET /v1/pos/session - lenient limit per shop (POS tiles poll this on every render)
	r.Mux.Handle("GET /v1/pos/session",
		httpx.Chain(&SessionHandler{},
			ResolveIdentity(r.Resolver, r.DefaultShop),
			httpx.RateLimitByShop(r.limits.Lenient),
		),
	)

	tokens := &TokenHandler{Resolver: r.Resolver}

	// POST /v1/pos/token/status - moderate limit by IP, the token is not verified
	r.Mux.Handle("POST /v1/pos/token/status",
		httpx.Chain(http.HandlerFunc(tokens.HandleStatus),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	// POST /v1/pos/token/refresh - moderate limit by IP
	r.Mux.Handle("POST /v1/pos/token/refresh",
		httpx.Chain(http.HandlerFunc(tokens.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerCreditNotes() {
	h := &CreditNotesHandler{CreditNoteService: r.CreditNoteService}

	// GET /v1/credit-notes - simplified profile, unresolved callers get an empty list
	r.Mux.Handle("GET /v1/credit-notes",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			ResolveIdentity(r.Resolver.WithProfile(identity.SimplifiedProfile()), r.DefaultShop),
			httpx.RateLimitByShop(r.limits.Lenient),
		),
	)

	// POST /v1/credit-notes - full profile, verified identities only
	r.Mux.Handle("POST /v1/credit-notes",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			ResolveIdentity(r.Resolver, r.DefaultShop),
			RequireVerified(),
			httpx.RateLimitByShop(r.limits.Moderate),
		),
	)
}

func (r *Router) registerAdminSession() {
	h := &AdminSessionHandler{
		AdminSessions: r.AdminSessions,
		ShopService:   r.ShopService,
	}

	// POST /v1/admin/session - strict limit, trades a verified session token for a cookie
	r.Mux.Handle("POST /v1/admin/session",
		httpx.Chain(http.HandlerFunc(h.HandleEstablish),
			ResolveIdentity(r.Resolver, r.DefaultShop),
			RequireBearer(),
			httpx.RateLimitByShop(r.limits.Strict),
		),
	)

	// DELETE /v1/admin/session - moderate limit by IP
	r.Mux.Handle("DELETE /v1/admin/session",
		httpx.Chain(http.HandlerFunc(h.HandleClear),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.VerifierReady, r.Resolver.Cache()),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(metrics.Handler(),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
