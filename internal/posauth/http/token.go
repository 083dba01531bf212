package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
)

// TokenHandler answers lifecycle questions about a session token. Neither
// endpoint authorizes anything, so neither verifies the signature.
type TokenHandler struct {
	Resolver *identity.Resolver
}

// HandleStatus godoc
//
//	@Summary		Session Token Status
//	@Description	Decodes the exp claim of the session token and reports VALID, NEAR_EXPIRY, EXPIRED or INVALID.
//	@Description	The token is read from the Authorization header, or from the token form field when no header is sent.
//	@Description	The signature is not checked; use the result as a refresh hint only.
//	@Tags			POS
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token	formData	string	false	"Session token, if not sent as a bearer token"
//	@Success		200		{object}	authsdk.TokenStatusResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"no token supplied"
//	@Failure		429		{object}	map[string]string		"error, error_description"
//	@Router			/v1/pos/token/status [post].
func (h *TokenHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(w, r)
	if !ok {
		return
	}

	info := h.Resolver.Lifecycle(token)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenStatusResponse{
		Status:             string(info.Status),
		ExpiresIn:          info.ExpiresIn,
		RefreshRecommended: info.RefreshRecommended,
		ExpiresAt:          info.ExpiresAt,
	})
}

// HandleRefresh godoc
//
//	@Summary		Session Token Refresh Check
//	@Description	Tells the client whether it should fetch a new session token from App Bridge. The server never mints session tokens.
//	@Tags			POS
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token	formData	string	false	"Session token, if not sent as a bearer token"
//	@Success		200		{object}	authsdk.RefreshResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"no token supplied"
//	@Failure		429		{object}	map[string]string		"error, error_description"
//	@Router			/v1/pos/token/refresh [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(w, r)
	if !ok {
		return
	}

	res := h.Resolver.RefreshIfNeeded(token)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		Success:       res.Success,
		RefreshNeeded: res.RefreshNeeded,
		Reason:        res.Reason,
	})
}

// tokenFromRequest prefers a well formed bearer header and falls back to the
// token form field. It writes the error response itself.
func tokenFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	log := slogx.FromContext(r.Context())

	hdr := identity.ExtractBearer(r.Header.Get("Authorization"), len(r.Header.Values("Authorization")) > 0)
	if hdr.Valid {
		return hdr.Token, true
	}

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidRequest.WithDescription("expected a bearer token or a form encoded token field").WriteError(w)
		return "", false
	}
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("could not parse form body").WriteError(w)
		return "", false
	}

	token := strings.TrimSpace(r.PostForm.Get("token"))
	if token == "" {
		log.Debug("token check without a token", "header_error", hdr.Error)
		authsdk.ErrInvalidRequest.WithDescription("token is required").WriteError(w)
		return "", false
	}
	return token, true
}
