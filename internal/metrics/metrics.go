// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateDecisions counts purchasability decisions per lifecycle check.
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointmarket_gate_decisions_total",
		Help: "Purchasability gate decisions by check and result.",
	}, []string{"check", "result"})

	// GateFailOpen counts recovered failures inside affordability
	// evaluation: the purchase was allowed despite an internal error.
	GateFailOpen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pointmarket_gate_fail_open_total",
		Help: "Purchase actions allowed because affordability evaluation failed.",
	})

	// AresLookups counts ARES registry lookups by outcome.
	AresLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointmarket_ares_lookups_total",
		Help: "ARES lookups by result.",
	}, []string{"result"})

	// SubmissionsResolved counts approved/rejected submissions.
	SubmissionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointmarket_submissions_resolved_total",
		Help: "Resolved submissions by type and status.",
	}, []string{"type", "status"})
)
