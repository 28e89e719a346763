// Package metrics defines and registers all custom Prometheus metrics for
// the billing API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billing"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// PermissionDenialsTotal counts requests blocked by the privilege gate.
// Label:
//   - permission: the canonical permission name that was missing
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests denied for a missing privilege.",
	},
	[]string{"permission"},
)

// PrivilegeReadsTotal counts permission matrix reads.
// Label:
//   - result: "hit" (role found) or "miss" (unknown role)
var PrivilegeReadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "privilege_reads_total",
		Help:      "Total number of permission matrix reads, labelled by result.",
	},
	[]string{"result"},
)

// PrivilegeUpdatesTotal counts permission matrix replacements.
var PrivilegeUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "privilege_updates_total",
		Help:      "Total number of permission matrix updates.",
	},
)

// TokensRevokedTotal counts tokens added to the logout denylist.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of bearer tokens revoked at logout.",
	},
)
