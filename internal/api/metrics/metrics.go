// Package metrics defines and registers the custom Prometheus metrics of the
// identity API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Registration / login ──────────────────────────────────────────────────────

// SignUpsTotal counts sign-up attempts that reached the service.
// Label:
//   - outcome: "created", "duplicate" or "error"
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ups_total",
		Help:      "Total number of sign-up attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SignInsTotal counts sign-in attempts that reached the service.
// Label:
//   - outcome: "success", "invalid_credentials", "disabled" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Request authentication ────────────────────────────────────────────────────

// TokenVerificationsTotal counts bearer tokens seen by the authentication
// middleware.
// Label:
//   - result: "valid", "expired", "malformed", "signature_invalid" or "missing_claims"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the attempt limiter.
// Label:
//   - scope: limiter scope (e.g. "sign-in")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the attempt limiter.",
	},
	[]string{"scope"},
)
