package identity

import "strings"

const bearerPrefix = "Bearer "

// Suspicious token patterns. These catch client bugs that stringify a missing
// value into the header; they are not a security control.
const (
	PatternNull         = "null"
	PatternUndefined    = "undefined"
	PatternWhitespace   = "whitespace"
	PatternDoubleBearer = "double-bearer-prefix"
)

// Header extractor error texts.
const (
	ErrTextMissing       = "missing"
	ErrTextInvalidFormat = "invalid format"
	ErrTextEmptyToken    = "empty token"
	ErrTextSuspicious    = "suspicious token pattern"
)

// HeaderResult is the outcome of ExtractBearer. Exactly one of Token or Kind
// is set.
type HeaderResult struct {
	Valid   bool
	Token   string
	Kind    FailureKind
	Error   string
	Pattern string

	HasAuthHeader   bool
	HasBearerPrefix bool
	HeaderLength    int
}

// ExtractBearer classifies an Authorization header value. present
// distinguishes an absent header from an empty one.
func ExtractBearer(header string, present bool) HeaderResult {
	res := HeaderResult{
		HasAuthHeader: present,
		HeaderLength:  len(header),
	}

	if !present {
		return res.fail(HeaderMissing, ErrTextMissing)
	}

	// net/http trims trailing whitespace off header values, so "Bearer " with
	// nothing after it arrives as "Bearer".
	if header == strings.TrimSpace(bearerPrefix) {
		res.HasBearerPrefix = true
		return res.fail(HeaderEmptyToken, ErrTextEmptyToken)
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return res.fail(HeaderMalformed, ErrTextInvalidFormat)
	}
	res.HasBearerPrefix = true

	rest := header[len(bearerPrefix):]
	if rest == "" {
		return res.fail(HeaderEmptyToken, ErrTextEmptyToken)
	}

	token := strings.TrimSpace(rest)
	if pattern := suspiciousPattern(rest, token); pattern != "" {
		res.Pattern = pattern
		return res.fail(HeaderSuspiciousToken, ErrTextSuspicious)
	}

	res.Valid = true
	res.Token = token
	return res
}

func (r HeaderResult) fail(kind FailureKind, msg string) HeaderResult {
	r.Valid = false
	r.Kind = kind
	r.Error = msg
	return r
}

func suspiciousPattern(raw, token string) string {
	switch {
	case token == "" && raw != "":
		return PatternWhitespace
	case strings.EqualFold(token, PatternNull):
		return PatternNull
	case strings.EqualFold(token, PatternUndefined):
		return PatternUndefined
	case len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix):
		return PatternDoubleBearer
	case strings.EqualFold(token, strings.TrimSpace(bearerPrefix)):
		// "Bearer Bearer " after the transport trimmed the trailing space.
		return PatternDoubleBearer
	}
	return ""
}
