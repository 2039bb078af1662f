package server

import (
	"context"
	"log"
	"time"

	"github.com/quadrant-ai/quadrant/internal/store"
	"github.com/quadrant-ai/quadrant/internal/telemetry"
	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
)

// recorder fans one finished agent invocation out to the run store, the
// telemetry counters and the Prometheus metrics. The store is optional.
type recorder struct {
	store  *store.Store
	tel    *telemetry.Telemetry
	logger *log.Logger
}

func (r *recorder) record(ctx context.Context, agent, input, output string, usage provider.Usage, start time.Time, runErr error) {
	dur := time.Since(start)
	outcome := "success"
	errMsg := ""
	if runErr != nil {
		outcome = "error"
		errMsg = runErr.Error()
	}

	agentRequests.WithLabelValues(agent, outcome).Inc()
	agentDuration.WithLabelValues(agent).Observe(dur.Seconds())
	agentTokens.WithLabelValues(agent).Add(float64(usage.TotalTokens))

	if r.tel != nil {
		r.tel.RecordAgentExecution(agent, dur, runErr == nil, usage.TotalTokens)
	}
	if r.store != nil {
		if _, err := r.store.SaveRun(ctx, models.Run{
			Agent:      agent,
			Input:      input,
			Output:     output,
			Success:    runErr == nil,
			Error:      errMsg,
			DurationMS: dur.Milliseconds(),
			TokensUsed: usage.TotalTokens,
		}); err != nil {
			r.logger.Printf("failed to persist %s run: %v", agent, err)
		}
	}
}
