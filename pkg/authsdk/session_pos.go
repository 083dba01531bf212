package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Resolve asks the service who the caller is.
func (s *Session) Resolve(ctx context.Context) (*SessionResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/pos/session", nil, nil)
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}
	if session.RefreshNeeded {
		s.Invalidate()
	}
	return &session, nil
}

// TokenStatus reports the lifecycle of the session's current token.
func (s *Session) TokenStatus(ctx context.Context) (*TokenStatusResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/pos/token/status", nil, nil)
	if err != nil {
		return nil, err
	}

	var status TokenStatusResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}

// Refresh asks whether the current token should be replaced and drops it
// from the session if so.
func (s *Session) Refresh(ctx context.Context) (*RefreshResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/pos/token/refresh", nil, nil)
	if err != nil {
		return nil, err
	}

	var refresh RefreshResponse
	if err := decodeJSON(resp, &refresh, http.StatusOK); err != nil {
		return nil, err
	}
	if refresh.RefreshNeeded {
		s.Invalidate()
	}
	return &refresh, nil
}

// ListCreditNotes returns the newest credit notes of the caller's shop.
// limit <= 0 uses the server default.
func (s *Session) ListCreditNotes(ctx context.Context, limit int) (*CreditNoteListResponse, error) {
	path := "/v1/credit-notes"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var list CreditNoteListResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

// IssueCreditNote creates a credit note for the caller's shop.
func (s *Session) IssueCreditNote(ctx context.Context, req IssueCreditNoteRequest) (*CreditNote, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/credit-notes",
		bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return nil, err
	}

	var note CreditNote
	if err := decodeJSON(resp, &note, http.StatusCreated); err != nil {
		return nil, err
	}
	return &note, nil
}

// EstablishAdminSession exchanges the session token for an admin cookie.
// The SDKClient's HTTPClient needs a cookie jar to keep it.
func (s *Session) EstablishAdminSession(ctx context.Context) (*AdminSessionResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/session", nil, nil)
	if err != nil {
		return nil, err
	}

	var admin AdminSessionResponse
	if err := decodeJSON(resp, &admin, http.StatusOK); err != nil {
		return nil, err
	}
	return &admin, nil
}
