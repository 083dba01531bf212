package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the structural classification of a bearer token.
type Kind string

const (
	// KindJWT is a three-segment token with a decodable JSON header.
	KindJWT Kind = "JWT"
	// KindOther is anything else, passed through as an opaque token.
	KindOther Kind = "OTHER"
)

// jwtHeaderPrefix is how every base64url-encoded `{"` JSON object starts.
const jwtHeaderPrefix = "eyJ"

// Header is the decoded JOSE header of a JWT.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
	Kid string `json:"kid,omitempty"`
}

// Structure is what Inspect learned about a token without verifying it.
type Structure struct {
	Kind   Kind
	Header Header
}

// DecodeError reports which part of a JWT failed to decode and why.
type DecodeError struct {
	Segment string // "header" or "payload"
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jwtx: decode %s: %v", e.Segment, e.Err)
}

func (e *DecodeError) Unwrap() error { return ErrMalformedJWT }

// Inspect classifies a token by shape only. Signatures and claims are never
// looked at here.
//
// A token that has three segments and starts like a JWT but won't decode is
// a hard failure (a *DecodeError wrapping ErrMalformedJWT). Anything else that
// isn't a JWT comes back as KindOther.
func Inspect(token string) (Structure, error) {
	parts := strings.Split(token, ".")
	looksLikeJWT := len(parts) == 3 && strings.HasPrefix(token, jwtHeaderPrefix)

	if len(parts) != 3 {
		return Structure{Kind: KindOther}, nil
	}

	var h Header
	if err := decodeSegment(parts[0], &h); err != nil {
		if looksLikeJWT {
			return Structure{}, &DecodeError{Segment: "header", Err: err}
		}
		return Structure{Kind: KindOther}, nil
	}

	if looksLikeJWT {
		var payload map[string]any
		if err := decodeSegment(parts[1], &payload); err != nil {
			return Structure{}, &DecodeError{Segment: "payload", Err: err}
		}
	}

	return Structure{Kind: KindJWT, Header: h}, nil
}

// DecodePayload returns the claims of a JWT without verifying the signature.
// Only use the result for advisory decisions like lifecycle hints.
func DecodePayload(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, &DecodeError{Segment: "payload", Err: fmt.Errorf("expected 3 segments, got %d", len(parts))}
	}

	var c Claims
	if err := decodeSegment(parts[1], &c); err != nil {
		return Claims{}, &DecodeError{Segment: "payload", Err: err}
	}
	return c, nil
}

func decodeSegment(seg string, v any) error {
	// Some clients pad their segments even though RFC 7515 says not to.
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
