// Package metrics defines and registers the custom Prometheus metrics of the
// identity services. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry on package init via promauto;
// HTTP request metrics come from echoprometheus in the routers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Audit events ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts authentication and account-administration outcomes.
// Label:
//   - type: event type (e.g. "login_failed", "account_locked")
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication audit events, by type.",
	},
	[]string{"type"},
)

// AuthEventsDroppedTotal counts audit events discarded because a worker buffer was full.
var AuthEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_dropped_total",
		Help:      "Total number of audit events dropped due to back-pressure.",
	},
)

// AuthEventsQueueDepth tracks pending events in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var AuthEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "auth_events_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Active-account gates ──────────────────────────────────────────────────────

// ActiveAccountChecksTotal counts gate decisions.
// Labels:
//   - gate:   "local" or "remote"
//   - result: "allowed", "inactive", "not_found", "invalid_identity", "unavailable", "error"
var ActiveAccountChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "active_account_checks_total",
		Help:      "Total number of active-account gate decisions.",
	},
	[]string{"gate", "result"},
)

// RemoteStatusDuration measures the cross-service status call.
// Label:
//   - outcome: "active", "forbidden", "unavailable"
var RemoteStatusDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_status_duration_seconds",
		Help:      "Duration of account status calls to the owning service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Throttling ────────────────────────────────────────────────────────────────

// ThrottleRejectionsTotal counts requests refused by the login throttle.
var ThrottleRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttle_rejections_total",
		Help:      "Total number of requests rejected by the per-IP attempt limiter.",
	},
)
