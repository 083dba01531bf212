package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets the listed origins (the POS extension host, the admin) call the
// API from a browser context. An empty list disables cross-origin access.
func CORS(allowedOrigins []string) Middleware {
	// rs/cors treats an empty list as "allow all".
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Shopify-Shop-Domain",
			"X-Shopify-POS-Extension-Version",
			"X-Shopify-Location-Id",
			"X-Shop-Domain",
			"X-Shop",
			"Shop",
		},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After", "WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
