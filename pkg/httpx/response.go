package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// BearerChallenge builds an RFC 6750 WWW-Authenticate value.
func BearerChallenge(code, desc string) string {
	var b strings.Builder
	b.WriteString("Bearer")
	if code != "" {
		b.WriteString(` error="` + quoteSafe(code) + `"`)
	}
	if desc != "" {
		if code != "" {
			b.WriteByte(',')
		}
		b.WriteString(` error_description="` + quoteSafe(desc) + `"`)
	}
	return b.String()
}

// WriteBearerError answers with an RFC 6750 challenge and a JSON body.
func WriteBearerError(w http.ResponseWriter, status int, code, desc string, body any) {
	w.Header().Set("WWW-Authenticate", BearerChallenge(code, desc))
	WriteJSON(w, status, body)
}

func quoteSafe(s string) string {
	return strings.NewReplacer(`"`, "'", `\`, "", "\r", " ", "\n", " ").Replace(s)
}
