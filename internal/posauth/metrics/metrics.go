package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "posauth"

const (
	LabelStrategy = "strategy"
	LabelOutcome  = "outcome"
	LabelFailure  = "failure"
	LabelEvent    = "event"
	LabelStage    = "stage"
)

// Resolutions counts every finished identity resolution. Comparing the
// claims_validated and fallback_* strategies is the main operational signal.
var Resolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "resolutions_total",
		Help:      "Identity resolutions by strategy and outcome",
		Namespace: Namespace,
	},
	[]string{LabelStrategy, LabelOutcome},
)

var Failures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "resolution_failures_total",
		Help:      "Unresolved identity resolutions by failure kind",
		Namespace: Namespace,
	},
	[]string{LabelFailure},
)

var FallbackAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "fallback_attempts_total",
		Help:      "Fallback stage attempts by stage and outcome",
		Namespace: Namespace,
	},
	[]string{LabelStage, LabelOutcome},
)

var CacheEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "token_cache_events_total",
		Help:      "Token lifecycle cache events",
		Namespace: Namespace,
	},
	[]string{LabelEvent},
)

var CacheEntries = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name:      "token_cache_entries",
		Help:      "Current token lifecycle cache size",
		Namespace: Namespace,
	},
)

// Cache event label values.
const (
	CacheHit     = "hit"
	CacheNearHit = "near_expiry_hit"
	CacheMiss    = "miss"
	CacheStale   = "stale"
	CachePut     = "put"
	CacheEvicted = "evicted"
	CacheSwept   = "swept"
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
