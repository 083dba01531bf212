package identity

// FailureKind names the branch that stopped a resolution. Each kind is
// distinct so logs, metrics and tests can tell them apart.
type FailureKind string

const (
	FailureNone FailureKind = ""

	// Client-side header construction bugs.
	HeaderMissing         FailureKind = "HEADER_MISSING"
	HeaderMalformed       FailureKind = "HEADER_MALFORMED"
	HeaderEmptyToken      FailureKind = "HEADER_EMPTY_TOKEN"
	HeaderSuspiciousToken FailureKind = "HEADER_SUSPICIOUS_TOKEN"

	// The token claims to be a JWT but does not decode.
	StructuralJWTMalformed FailureKind = "STRUCTURAL_JWT_MALFORMED"

	// Signature, expiry or shop claim rejected by the validator.
	ClaimsInvalid FailureKind = "CLAIMS_INVALID"

	// Every fallback stage was tried and none produced a shop. Only POS
	// extension callers can end up here.
	FallbackExhausted FailureKind = "FALLBACK_EXHAUSTED"

	// The caller is not a POS extension so the fallback chain did not run
	// and the admin session hand-off found nothing either.
	NotApplicable FailureKind = "NOT_APPLICABLE"

	// The request context ended before resolution finished.
	Canceled FailureKind = "CANCELED"
)

// IsHeaderFailure reports whether k came from the header extractor.
func (k FailureKind) IsHeaderFailure() bool {
	switch k {
	case HeaderMissing, HeaderMalformed, HeaderEmptyToken, HeaderSuspiciousToken:
		return true
	}
	return false
}
