package identity

import "time"

// Strategy tags which stage produced a Result.
type Strategy string

const (
	StrategyClaimsValidated        Strategy = "CLAIMS_VALIDATED"
	StrategyCacheHit               Strategy = "CACHE_HIT"
	StrategyFallbackShopHeader     Strategy = "FALLBACK_SHOP_HEADER"
	StrategyFallbackURLParam       Strategy = "FALLBACK_URL_PARAM"
	StrategyFallbackStandardHeader Strategy = "FALLBACK_STANDARD_HEADER"
	StrategyFallbackReferer        Strategy = "FALLBACK_REFERER"
	StrategyFallbackDefault        Strategy = "FALLBACK_DEFAULT"
	StrategyAdminSession           Strategy = "ADMIN_SESSION"
	StrategyNone                   Strategy = "NONE"
)

// IsFallback reports whether s came out of the fallback chain.
func (s Strategy) IsFallback() bool {
	switch s {
	case StrategyFallbackShopHeader, StrategyFallbackURLParam, StrategyFallbackStandardHeader,
		StrategyFallbackReferer, StrategyFallbackDefault:
		return true
	}
	return false
}

// TroubleshootingLevel grades how far a caller is from a working session.
type TroubleshootingLevel string

const (
	TroubleshootingStandard TroubleshootingLevel = "STANDARD"
	TroubleshootingCritical TroubleshootingLevel = "CRITICAL"
)

// Result is the outcome of one identity resolution.
//
// Resolved is true exactly when ShopDomain is a valid "*.myshopify.com"
// domain, and Strategy is StrategyNone exactly when Resolved is false. Only
// the constructors in this file build a Result so that always holds.
type Result struct {
	Resolved      bool       `json:"resolved"`
	ShopDomain    string     `json:"shopDomain,omitempty"`
	UserID        string     `json:"userId,omitempty"`
	SessionID     string     `json:"sessionId,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Strategy      Strategy   `json:"strategy"`
	RefreshNeeded bool       `json:"refreshNeeded,omitempty"`

	// Degraded marks an unresolved result that the caller asked to treat
	// as an empty session rather than a hard failure.
	Degraded bool `json:"degraded,omitempty"`

	Failure              FailureKind          `json:"failure,omitempty"`
	Error                string               `json:"error,omitempty"`
	Remediation          []string             `json:"remediation,omitempty"`
	TroubleshootingLevel TroubleshootingLevel `json:"troubleshootingLevel,omitempty"`

	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Diagnostics are for logs and remediation only. Control flow never reads them.
type Diagnostics struct {
	HasAuthHeader     bool           `json:"hasAuthHeader"`
	HasBearerPrefix   bool           `json:"hasBearerPrefix"`
	HeaderError       string         `json:"headerError,omitempty"`
	SuspiciousPattern string         `json:"suspiciousPattern,omitempty"`
	TokenKind         string         `json:"tokenKind,omitempty"`
	TokenFingerprint  string         `json:"tokenFingerprint,omitempty"`
	StructuralError   string         `json:"structuralError,omitempty"`
	ClaimsError       string         `json:"claimsError,omitempty"`
	AdminSessionError string         `json:"adminSessionError,omitempty"`
	Device            DeviceContext  `json:"device"`
	UserAgent         UserAgentInfo  `json:"userAgent"`
	ExtensionVersion  string         `json:"extensionVersion,omitempty"`
	LocationID        string         `json:"locationId,omitempty"`
	Failures          []FailureKind  `json:"failures,omitempty"`
	Strategies        []Strategy     `json:"strategiesAttempted,omitempty"`
	Attempts          []StageAttempt `json:"fallbackAttempts,omitempty"`
}

func (d *Diagnostics) tried(s Strategy) {
	d.Strategies = append(d.Strategies, s)
}

func (d *Diagnostics) failed(k FailureKind) {
	d.Failures = append(d.Failures, k)
}

// Identity is the resolved part of a successful Result.
type Identity struct {
	Shop      string
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// succeed builds a resolved Result. If the shop does not satisfy the
// resolved invariant the result is downgraded to a failure instead.
func succeed(strategy Strategy, id Identity, diag *Diagnostics) Result {
	if strategy == StrategyNone || !IsShopDomain(id.Shop) {
		return fail(FallbackExhausted, "resolved shop is not a myshopify.com domain", diag)
	}

	res := Result{
		Resolved:    true,
		ShopDomain:  id.Shop,
		UserID:      id.UserID,
		SessionID:   id.SessionID,
		Strategy:    strategy,
		Diagnostics: diag,
	}
	if !id.ExpiresAt.IsZero() {
		exp := id.ExpiresAt
		res.ExpiresAt = &exp
	}
	return res
}

// fail builds an unresolved Result with remediation for the device in diag.
func fail(kind FailureKind, msg string, diag *Diagnostics) Result {
	var dev DeviceContext
	if diag != nil {
		dev = diag.Device
	}

	level := TroubleshootingStandard
	if kind == FallbackExhausted {
		level = TroubleshootingCritical
	}

	return Result{
		Resolved:             false,
		Strategy:             StrategyNone,
		Failure:              kind,
		Error:                msg,
		Remediation:          Remediation(kind, dev),
		TroubleshootingLevel: level,
		Diagnostics:          diag,
	}
}
