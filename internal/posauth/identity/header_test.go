package identity_test

import (
	"testing"

	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		present bool
		kind    identity.FailureKind
		err     string
		pattern string
		token   string
	}{
		{name: "missing", present: false, kind: identity.HeaderMissing, err: "missing"},
		{name: "empty value", header: "", present: true, kind: identity.HeaderMalformed, err: "invalid format"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", present: true, kind: identity.HeaderMalformed, err: "invalid format"},
		{name: "lowercase bearer", header: "bearer abc.def.ghi", present: true, kind: identity.HeaderMalformed, err: "invalid format"},
		{name: "no space", header: "Bearerabc", present: true, kind: identity.HeaderMalformed, err: "invalid format"},
		{name: "prefix only", header: "Bearer ", present: true, kind: identity.HeaderEmptyToken, err: "empty token"},
		{name: "prefix trimmed by transport", header: "Bearer", present: true, kind: identity.HeaderEmptyToken, err: "empty token"},
		{name: "null", header: "Bearer null", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternNull},
		{name: "NULL", header: "Bearer NULL", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternNull},
		{name: "undefined", header: "Bearer undefined", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternUndefined},
		{name: "Undefined", header: "Bearer Undefined", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternUndefined},
		{name: "whitespace", header: "Bearer    ", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternWhitespace},
		{name: "double prefix", header: "Bearer Bearer abc", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternDoubleBearer},
		{name: "double prefix without token", header: "Bearer Bearer", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternDoubleBearer},
		{name: "double prefix lowercase", header: "Bearer bearer", present: true, kind: identity.HeaderSuspiciousToken, err: "suspicious token pattern", pattern: identity.PatternDoubleBearer},
		{name: "valid", header: "Bearer abc.def.ghi", present: true, token: "abc.def.ghi"},
		{name: "valid trims", header: "Bearer   abc.def.ghi  ", present: true, token: "abc.def.ghi"},
		{name: "nullish but longer", header: "Bearer nullable-token", present: true, token: "nullable-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := identity.ExtractBearer(tt.header, tt.present)

			require.Equal(t, tt.present, res.HasAuthHeader)
			if tt.token != "" {
				require.True(t, res.Valid)
				require.Equal(t, tt.token, res.Token)
				require.Empty(t, res.Kind)
				return
			}

			require.False(t, res.Valid)
			require.Empty(t, res.Token)
			require.Equal(t, tt.kind, res.Kind)
			require.Equal(t, tt.err, res.Error)
			require.Equal(t, tt.pattern, res.Pattern)
		})
	}
}

func TestExtractBearerFailuresAreDistinct(t *testing.T) {
	inputs := []struct {
		header  string
		present bool
	}{
		{"", false},
		{"Token x", true},
		{"Bearer ", true},
		{"Bearer null", true},
	}

	seen := map[identity.FailureKind]bool{}
	for _, in := range inputs {
		res := identity.ExtractBearer(in.header, in.present)
		require.True(t, res.Kind.IsHeaderFailure())
		require.False(t, seen[res.Kind], "duplicate kind %s", res.Kind)
		seen[res.Kind] = true
	}
}
