// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growwithme_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "growwithme_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growwithme_notifications_created_total",
		Help: "Notifications written, by type.",
	}, []string{"type"})

	MatchEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growwithme_match_evaluations_total",
		Help: "Alert x user pairs evaluated by the match watcher.",
	})

	MatchesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growwithme_matches_emitted_total",
		Help: "Match notifications created.",
	})

	NegotiationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growwithme_negotiation_transitions_total",
		Help: "Negotiation status changes, by resulting status.",
	}, []string{"status"})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "growwithme_notification_subscriptions",
		Help: "Open notification subscriptions.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "growwithme_websocket_clients",
		Help: "Connected websocket clients.",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growwithme_rate_limited_total",
		Help: "Requests refused by the rate limiter, by action.",
	}, []string{"action"})
)
