package identity

import (
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
)

// LifecycleStatus is the advisory state of a token's exp claim.
type LifecycleStatus string

const (
	LifecycleValid      LifecycleStatus = "VALID"
	LifecycleNearExpiry LifecycleStatus = "NEAR_EXPIRY"
	LifecycleExpired    LifecycleStatus = "EXPIRED"
	LifecycleInvalid    LifecycleStatus = "INVALID"
)

// LifecycleInfo answers "how long does this token have left".
type LifecycleInfo struct {
	Status             LifecycleStatus `json:"status"`
	ExpiresIn          int64           `json:"expiresIn"`
	RefreshRecommended bool            `json:"refreshRecommended"`
	ExpiresAt          *time.Time      `json:"expiresAt,omitempty"`
}

// Lifecycle decodes exp straight from the token payload, so it works for
// tokens the cache has never seen. The signature is not checked; the answer
// is a hint for the client, not an authorization decision.
func (r *Resolver) Lifecycle(token string) LifecycleInfo {
	return LifecycleAt(token, r.clock.Now())
}

// LifecycleAt is Lifecycle against an explicit instant.
func LifecycleAt(token string, now time.Time) LifecycleInfo {
	claims, err := jwtx.DecodePayload(token)
	if err != nil {
		return LifecycleInfo{Status: LifecycleInvalid, RefreshRecommended: true}
	}

	exp := claims.ExpiresAtTime()
	if exp.IsZero() {
		return LifecycleInfo{Status: LifecycleInvalid, RefreshRecommended: true}
	}

	info := LifecycleInfo{ExpiresAt: &exp}
	remaining := exp.Sub(now)
	switch {
	case remaining <= 0:
		info.Status = LifecycleExpired
		info.RefreshRecommended = true
	case remaining <= RefreshWindow:
		info.Status = LifecycleNearExpiry
		info.ExpiresIn = int64(remaining / time.Second)
		info.RefreshRecommended = true
	default:
		info.Status = LifecycleValid
		info.ExpiresIn = int64(remaining / time.Second)
	}
	return info
}

// RefreshResult tells the client whether it has to fetch a new session
// token. The server never exchanges tokens itself.
type RefreshResult struct {
	Success       bool   `json:"success"`
	RefreshNeeded bool   `json:"refreshNeeded"`
	Reason        string `json:"reason"`
}

// RefreshIfNeeded answers from the cache when the token is there and falls
// back to decoding exp otherwise.
func (r *Resolver) RefreshIfNeeded(token string) RefreshResult {
	if entry, ok := r.cache.Get(token); ok {
		if r.cache.IsNearExpiry(entry) {
			return RefreshResult{RefreshNeeded: true, Reason: "token is near expiry, request a new session token"}
		}
		return RefreshResult{Success: true, Reason: "token is valid"}
	}

	switch info := r.Lifecycle(token); info.Status {
	case LifecycleValid:
		return RefreshResult{Success: true, Reason: "token is valid"}
	case LifecycleNearExpiry:
		return RefreshResult{RefreshNeeded: true, Reason: "token is near expiry, request a new session token"}
	case LifecycleExpired:
		return RefreshResult{RefreshNeeded: true, Reason: "token has expired, request a new session token"}
	default:
		return RefreshResult{RefreshNeeded: true, Reason: "token could not be decoded, request a new session token"}
	}
}
