// Package ops exposes the operational surface of the bot: Prometheus
// counters for the update pipeline and a small HTTP server with health
// and metrics endpoints.
package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts every Telegram update with an identifiable sender.
	UpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "goldex",
		Name:      "updates_total",
		Help:      "Telegram updates dispatched to handlers.",
	})

	// HandlerErrorsTotal counts handler failures and panics.
	HandlerErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "goldex",
		Name:      "handler_errors_total",
		Help:      "Update handlers that failed or panicked.",
	})

	// RequestsCreatedTotal counts opened requests by type.
	RequestsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldex",
		Name:      "requests_created_total",
		Help:      "Requests opened, labelled by request type.",
	}, []string{"type"})

	// SettlementsTotal counts request transitions applied by verdicts,
	// labelled by the resulting status.
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldex",
		Name:      "settlements_total",
		Help:      "Request status transitions applied, labelled by new status.",
	}, []string{"status"})

	// PendingRequestsGauge is the queue depth last observed by the admin.
	PendingRequestsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "goldex",
		Name:      "pending_requests",
		Help:      "Pending requests at the last admin queue view.",
	})
)
