// Package metrics defines and registers the custom Prometheus metrics for the
// user directory. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_directory"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential checks made by the auth middleware.
// Labels:
//   - scheme: "basic" or "bearer"
//   - outcome: "success", "unauthenticated", "bad_credentials",
//     "disabled", "invalid_token" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by scheme and outcome.",
	},
	[]string{"scheme", "outcome"},
)

// TokensIssuedTotal counts bearer tokens minted by the login endpoint.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// AccessDeniedTotal counts requests rejected by the access policy.
// Label:
//   - authority: the authority the matching rule required (e.g. "ROLE_admin")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied for a missing authority.",
	},
	[]string{"authority"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// UserMutationsTotal counts successful writes to the directory.
// Label:
//   - op: "create", "update", "change_password" or "delete"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of successful user directory mutations, by operation.",
	},
	[]string{"op"},
)
