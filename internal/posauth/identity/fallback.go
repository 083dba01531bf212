package identity

import (
	"context"
	"net/http"
	"net/url"
)

// Fallback sources, in the order they are consulted.
const (
	HeaderShopDomain = "X-Shopify-Shop-Domain"

	QueryShop       = "shop"
	QueryShopDomain = "shopDomain"

	HeaderReferer  = "Referer"
	HeaderReferrer = "Referrer"
)

// alternateShopHeaders is the small fixed set checked by the standard header stage.
var alternateShopHeaders = []string{"X-Shop-Domain", "X-Shop", "Shop"}

// Stage names one fallback stage.
type Stage string

const (
	StageShopHeader     Stage = "SHOP_HEADER"
	StageURLParam       Stage = "URL_PARAM"
	StageStandardHeader Stage = "STANDARD_HEADER"
	StageReferer        Stage = "REFERER"
	StageDefault        Stage = "DEFAULT"
)

// Strategy returns the result strategy a stage produces on a match.
func (s Stage) Strategy() Strategy {
	switch s {
	case StageShopHeader:
		return StrategyFallbackShopHeader
	case StageURLParam:
		return StrategyFallbackURLParam
	case StageStandardHeader:
		return StrategyFallbackStandardHeader
	case StageReferer:
		return StrategyFallbackReferer
	case StageDefault:
		return StrategyFallbackDefault
	}
	return StrategyNone
}

// Stages toggles individual fallback stages.
type Stages struct {
	ShopHeader     bool `json:"shopHeader"`
	URLParam       bool `json:"urlParam"`
	StandardHeader bool `json:"standardHeader"`
	Referer        bool `json:"referer"`
	Default        bool `json:"default"`
}

// AllStages enables the whole chain.
func AllStages() Stages {
	return Stages{ShopHeader: true, URLParam: true, StandardHeader: true, Referer: true, Default: true}
}

func (s Stages) enabled(stage Stage) bool {
	switch stage {
	case StageShopHeader:
		return s.ShopHeader
	case StageURLParam:
		return s.URLParam
	case StageStandardHeader:
		return s.StandardHeader
	case StageReferer:
		return s.Referer
	case StageDefault:
		return s.Default
	}
	return false
}

// AttemptOutcome says what happened when a stage looked at one source.
type AttemptOutcome string

const (
	AttemptMatched AttemptOutcome = "matched"
	AttemptAbsent  AttemptOutcome = "absent"
	AttemptInvalid AttemptOutcome = "invalid"
	AttemptSkipped AttemptOutcome = "skipped"
)

// StageAttempt is one line of the fallback attempt log.
type StageAttempt struct {
	Stage   Stage          `json:"stage"`
	Source  string         `json:"source,omitempty"`
	Outcome AttemptOutcome `json:"outcome"`
	Detail  string         `json:"detail,omitempty"`
}

// FallbackResult is what the chain recovered, plus how it got there.
type FallbackResult struct {
	Matched  bool
	Stage    Stage
	Shop     string
	Attempts []StageAttempt
}

var stageOrder = []Stage{StageShopHeader, StageURLParam, StageStandardHeader, StageReferer, StageDefault}

// RunFallback walks the enabled stages in strict order and stops at the
// first valid shop. The Referer stage only runs for iOS devices. ctx is
// checked between stages; a done context ends the walk with ctx.Err().
func RunFallback(ctx context.Context, r *http.Request, dev DeviceContext, stages Stages, defaultShop string) (FallbackResult, error) {
	var res FallbackResult

	for _, stage := range stageOrder {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if !stages.enabled(stage) {
			res.Attempts = append(res.Attempts, StageAttempt{Stage: stage, Outcome: AttemptSkipped, Detail: "stage disabled"})
			continue
		}
		if stage == StageReferer && !dev.IsIOSDevice {
			res.Attempts = append(res.Attempts, StageAttempt{Stage: stage, Outcome: AttemptSkipped, Detail: "not an iOS device"})
			continue
		}

		for _, c := range candidates(stage, r, defaultShop) {
			attempt := StageAttempt{Stage: stage, Source: c.source}
			switch {
			case c.unreadable:
				attempt.Outcome = AttemptInvalid
				attempt.Detail = c.detail
			case c.value == "":
				attempt.Outcome = AttemptAbsent
				attempt.Detail = c.detail
			default:
				shop, err := NormalizeShopDomain(c.value)
				if err != nil {
					attempt.Outcome = AttemptInvalid
					attempt.Detail = "not a myshopify.com domain"
					break
				}
				attempt.Outcome = AttemptMatched
				res.Attempts = append(res.Attempts, attempt)
				res.Matched = true
				res.Stage = stage
				res.Shop = shop
				return res, nil
			}
			res.Attempts = append(res.Attempts, attempt)
		}
	}

	return res, nil
}

type candidate struct {
	source     string
	value      string
	detail     string
	unreadable bool // the source exists but could not be parsed
}

func candidates(stage Stage, r *http.Request, defaultShop string) []candidate {
	switch stage {
	case StageShopHeader:
		return []candidate{{source: HeaderShopDomain, value: r.Header.Get(HeaderShopDomain)}}

	case StageURLParam:
		q := r.URL.Query()
		return []candidate{
			{source: "query:" + QueryShop, value: q.Get(QueryShop)},
			{source: "query:" + QueryShopDomain, value: q.Get(QueryShopDomain)},
		}

	case StageStandardHeader:
		out := make([]candidate, 0, len(alternateShopHeaders))
		for _, h := range alternateShopHeaders {
			out = append(out, candidate{source: h, value: r.Header.Get(h)})
		}
		return out

	case StageReferer:
		out := make([]candidate, 0, 2)
		for _, h := range []string{HeaderReferer, HeaderReferrer} {
			out = append(out, refererCandidate(h, r.Header.Get(h)))
		}
		return out

	case StageDefault:
		return []candidate{{source: "default", value: defaultShop}}
	}
	return nil
}

func refererCandidate(header, raw string) candidate {
	c := candidate{source: header}
	if raw == "" {
		return c
	}

	// A Referer that doesn't parse just means this source didn't match.
	u, err := url.Parse(raw)
	if err != nil {
		c.unreadable = true
		c.detail = "unparseable referer URL"
		return c
	}
	c.value = u.Query().Get(QueryShop)
	if c.value == "" {
		c.detail = "referer has no shop parameter"
	}
	return c
}
