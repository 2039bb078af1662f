package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	agentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quadrant",
		Name:      "agent_requests_total",
		Help:      "Agent invocations by agent and outcome.",
	}, []string{"agent", "outcome"})

	agentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quadrant",
		Name:      "agent_request_duration_seconds",
		Help:      "Agent request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"agent"})

	agentTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quadrant",
		Name:      "agent_tokens_total",
		Help:      "LLM tokens consumed by agent.",
	}, []string{"agent"})
)
