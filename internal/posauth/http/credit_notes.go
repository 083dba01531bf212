package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
)

// maxIssueBody bounds the JSON body of POST /v1/credit-notes.
const maxIssueBody = 16 << 10

type CreditNotesHandler struct {
	CreditNoteService *service.CreditNoteService
}

// HandleList godoc
//
//	@Summary		List Credit Notes
//	@Description	Lists the newest credit notes of the resolved shop.
//	@Description	Resolution skips the alternate header and Referer fallbacks. When no shop can be resolved the response is 200 with degraded set and an empty list, so POS tiles render an empty state instead of an error.
//	@Tags			Credit Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of credit notes (default 50, max 250)"
//	@Success		200		{object}	authsdk.CreditNoteListResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid limit"
//	@Failure		401		{object}	authsdk.ErrorResponse	"header or claims failure on a non-POS caller"
//	@Failure		429		{object}	map[string]string		"error, error_description"
//	@Router			/v1/credit-notes [get].
func (h *CreditNotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			authsdk.ErrInvalidRequest.WithDescription("limit must be a positive integer").WriteError(w)
			return
		}
		limit = n
	}

	res, _ := ResultFromContext(ctx)
	if !res.Resolved {
		httpx.WriteJSON(w, http.StatusOK, authsdk.CreditNoteListResponse{
			Degraded:    true,
			CreditNotes: []authsdk.CreditNote{},
		})
		return
	}

	notes, err := h.CreditNoteService.List(ctx, res.ShopDomain, limit)
	if err != nil {
		log.Error("list credit notes failed", "shop", res.ShopDomain, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := authsdk.CreditNoteListResponse{
		ShopDomain:  res.ShopDomain,
		CreditNotes: make([]authsdk.CreditNote, 0, len(notes)),
	}
	for _, n := range notes {
		out.CreditNotes = append(out.CreditNotes, toAPICreditNote(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleIssue godoc
//
//	@Summary		Issue Credit Note
//	@Description	Issues an active credit note for the resolved shop with its full amount as balance.
//	@Description	Requires a verified session token or an admin session; fallback identities are read-only.
//	@Tags			Credit Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.IssueCreditNoteRequest	true	"Credit note"
//	@Success		201		{object}	authsdk.CreditNote
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"no verified identity"
//	@Failure		404		{object}	authsdk.ErrorResponse	"shop not installed"
//	@Failure		409		{object}	authsdk.ErrorResponse	"code already used"
//	@Failure		429		{object}	map[string]string		"error, error_description"
//	@Router			/v1/credit-notes [post].
func (h *CreditNotesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	res, _ := ResultFromContext(ctx)

	var req authsdk.IssueCreditNoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIssueBody)).Decode(&req); err != nil {
		authsdk.ErrInvalidJSON.WriteError(w)
		return
	}

	note, err := h.CreditNoteService.Issue(ctx, res.ShopDomain, service.IssueRequest{
		Code:       req.Code,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Currency:   req.Currency,
	})
	switch {
	case errors.Is(err, service.ErrInvalidCreditNote):
		authsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	case errors.Is(err, service.ErrDuplicateCode):
		authsdk.ErrDuplicateCreditNote.WriteError(w)
		return
	case errors.Is(err, service.ErrShopNotInstalled):
		authsdk.ErrShopNotInstalled.WriteError(w)
		return
	case err != nil:
		log.Error("issue credit note failed", "shop", res.ShopDomain, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAPICreditNote(note))
}

func toAPICreditNote(n domain.CreditNote) authsdk.CreditNote {
	return authsdk.CreditNote{
		ID:         n.ID,
		Code:       n.Code,
		CustomerID: n.CustomerID,
		Amount:     n.Amount,
		Balance:    n.Balance,
		Currency:   n.Currency,
		Status:     string(n.Status),
		CreatedAt:  n.CreatedAt,
	}
}
