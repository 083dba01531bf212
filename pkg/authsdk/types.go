package authsdk

import "time"

// ErrorResponse is the JSON body of every non-2xx response. Identity
// failures also carry the failure kind, remediation steps and diagnostics.
type ErrorResponse struct {
	// Error is the machine readable error code (e.g., "invalid_token")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`

	// Failure is the identity failure kind (e.g., "HEADER_MISSING")
	Failure string `json:"failure,omitempty"`

	// Remediation lists steps the merchant can take, most specific first
	Remediation []string `json:"remediation,omitempty"`

	// TroubleshootingLevel is STANDARD or CRITICAL
	TroubleshootingLevel string `json:"troubleshootingLevel,omitempty"`

	// Diagnostics describes what the server saw; never includes raw tokens
	Diagnostics any `json:"diagnostics,omitempty"`
}

// ============================================================================
// Session resolution
// ============================================================================

// SessionResponse is returned by GET /v1/pos/session when a shop identity
// was resolved.
type SessionResponse struct {
	Resolved   bool       `json:"resolved"`
	ShopDomain string     `json:"shopDomain"`
	UserID     string     `json:"userId,omitempty"`
	SessionID  string     `json:"sessionId,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`

	// Strategy names the stage that produced the identity (e.g., "CLAIMS_VALIDATED")
	Strategy string `json:"strategy"`

	// RefreshNeeded asks the client to fetch a new session token soon
	RefreshNeeded bool `json:"refreshNeeded,omitempty"`
}

// TokenStatusResponse is the lifecycle of a session token.
type TokenStatusResponse struct {
	// Status is VALID, NEAR_EXPIRY, EXPIRED or INVALID
	Status             string     `json:"status"`
	ExpiresIn          int64      `json:"expiresIn"`
	RefreshRecommended bool       `json:"refreshRecommended"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
}

// RefreshResponse tells the client whether to request a new session token.
type RefreshResponse struct {
	Success       bool   `json:"success"`
	RefreshNeeded bool   `json:"refreshNeeded"`
	Reason        string `json:"reason"`
}

// AdminSessionResponse is returned when an admin session cookie is issued.
type AdminSessionResponse struct {
	ShopDomain string `json:"shopDomain"`
}

// ============================================================================
// Credit notes
// ============================================================================

// CreditNote is store credit issued to a customer. Amounts are in minor
// currency units.
type CreditNote struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	CustomerID string    `json:"customerId,omitempty"`
	Amount     int64     `json:"amount"`
	Balance    int64     `json:"balance"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreditNoteListResponse is returned by GET /v1/credit-notes.
type CreditNoteListResponse struct {
	ShopDomain string `json:"shopDomain,omitempty"`

	// Degraded is set when no shop could be resolved; CreditNotes is then empty
	Degraded    bool         `json:"degraded,omitempty"`
	CreditNotes []CreditNote `json:"creditNotes"`
}

// IssueCreditNoteRequest is the body of POST /v1/credit-notes.
type IssueCreditNoteRequest struct {
	Code       string `json:"code"`
	CustomerID string `json:"customerId,omitempty"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains the status of critical service dependencies (readyz only)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Verifier indicates whether session tokens can be verified
	Verifier string `json:"verifier"`

	// TokenCache reports the number of cached session tokens
	TokenCache string `json:"tokenCache,omitempty"`
}
