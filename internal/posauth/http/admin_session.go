package http

import (
	"net/http"

	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
)

// AdminSessionHandler trades a verified session token for an admin session
// cookie, which later resolves callers outside the POS extension.
type AdminSessionHandler struct {
	AdminSessions *service.AdminSessions
	ShopService   *service.ShopService
}

// HandleEstablish godoc
//
//	@Summary		Establish Admin Session
//	@Description	Issues an encrypted session cookie for the shop named by a valid session token. The shop must have installed the app.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.AdminSessionResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"no valid session token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"shop not installed"
//	@Failure		429	{object}	map[string]string		"error, error_description"
//	@Header			200	{string}	Set-Cookie				"admin session cookie"
//	@Router			/v1/admin/session [post].
func (h *AdminSessionHandler) HandleEstablish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	res, _ := ResultFromContext(ctx)

	installed, err := h.ShopService.IsInstalled(ctx, res.ShopDomain)
	if err != nil {
		log.Error("shop lookup failed", "shop", res.ShopDomain, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	if !installed {
		authsdk.ErrShopNotInstalled.WriteError(w)
		return
	}

	if err := h.AdminSessions.Establish(w, r, res.ShopDomain, res.UserID); err != nil {
		log.Error("admin session not saved", "shop", res.ShopDomain, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("admin session established", "shop", res.ShopDomain)
	httpx.WriteJSON(w, http.StatusOK, authsdk.AdminSessionResponse{ShopDomain: res.ShopDomain})
}

// HandleClear godoc
//
//	@Summary		Clear Admin Session
//	@Description	Expires the admin session cookie. Succeeds whether or not a session existed.
//	@Tags			Admin
//	@Success		204	"Session cleared"
//	@Failure		429	{object}	map[string]string	"error, error_description"
//	@Router			/v1/admin/session [delete].
func (h *AdminSessionHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.AdminSessions.Clear(w, r); err != nil {
		slogx.FromContext(r.Context()).Error("admin session not cleared", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
