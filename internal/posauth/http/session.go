package http

import (
	"net/http"

	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
)

// SessionHandler serves GET /v1/pos/session. ResolveIdentity has already
// rejected unresolved callers, so this only shapes the response.
type SessionHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Resolve POS Session
//	@Description	Resolves the shop behind the request. The session token is tried first (cache, then signature and claims).
//	@Description	POS extension callers without a usable token fall back to shop hints: X-Shopify-Shop-Domain, the shop query parameter, alternate shop headers, the Referer and finally the configured default shop.
//	@Description	Other callers fall back to the admin session cookie.
//	@Tags			POS
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Shopify-Shop-Domain			header		string	false	"Shop hint for POS extension callers"
//	@Param			X-Shopify-POS-Extension-Version	header		string	false	"Marks the caller as a POS extension"
//	@Param			shop							query		string	false	"Shop hint for POS extension callers"
//	@Success		200								{object}	authsdk.SessionResponse
//	@Failure		401								{object}	authsdk.ErrorResponse	"failure kind, remediation and diagnostics"
//	@Failure		429								{object}	map[string]string		"error, error_description"
//	@Failure		503								{object}	authsdk.ErrorResponse	"request canceled"
//	@Header			401								{string}	WWW-Authenticate		"Bearer error=\"invalid_token\""
//	@Router			/v1/pos/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, ok := ResultFromContext(r.Context())
	if !ok {
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Resolved:      res.Resolved,
		ShopDomain:    res.ShopDomain,
		UserID:        res.UserID,
		SessionID:     res.SessionID,
		ExpiresAt:     res.ExpiresAt,
		Strategy:      string(res.Strategy),
		RefreshNeeded: res.RefreshNeeded,
	})
}
