package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/quadrant-ai/quadrant/config"
)

// Telemetry provides in-process monitoring and token accounting across the
// agents.
type Telemetry struct {
	config  config.TelemetryConfig
	logger  *log.Logger
	metrics *Metrics
	stop    chan struct{}
	once    sync.Once
}

// Metrics holds per-agent performance counters
type Metrics struct {
	mu sync.RWMutex

	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	AgentExecutions map[string]int64
	AgentFailures   map[string]int64
	AgentTotalTime  map[string]time.Duration
	AgentTokensUsed map[string]int64
	TotalTokens     int64
}

// AgentSnapshot is a point-in-time view of one agent's counters.
type AgentSnapshot struct {
	Executions  int64         `json:"executions"`
	Failures    int64         `json:"failures"`
	AverageTime time.Duration `json:"average_time"`
	TokensUsed  int64         `json:"tokens_used"`
}

// Snapshot is a point-in-time view of all counters.
type Snapshot struct {
	TotalRequests      int64                    `json:"total_requests"`
	SuccessfulRequests int64                    `json:"successful_requests"`
	FailedRequests     int64                    `json:"failed_requests"`
	TotalTokens        int64                    `json:"total_tokens"`
	Agents             map[string]AgentSnapshot `json:"agents"`
}

// NewTelemetry creates a new telemetry instance
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			AgentExecutions: make(map[string]int64),
			AgentFailures:   make(map[string]int64),
			AgentTotalTime:  make(map[string]time.Duration),
			AgentTokensUsed: make(map[string]int64),
		},
		stop: make(chan struct{}),
	}
	if cfg.Enabled && cfg.PeriodicLogs {
		go t.periodicLogging()
	}
	return t
}

// RecordAgentExecution records one agent invocation.
func (t *Telemetry) RecordAgentExecution(agent string, duration time.Duration, success bool, tokens int64) {
	if !t.config.Enabled {
		return
	}
	m := t.metrics
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
		m.AgentFailures[agent]++
	}
	m.AgentExecutions[agent]++
	m.AgentTotalTime[agent] += duration
	m.AgentTokensUsed[agent] += tokens
	m.TotalTokens += tokens
}

// Snapshot returns a copy of the current counters.
func (t *Telemetry) Snapshot() Snapshot {
	m := t.metrics
	m.mu.RLock()
	defer m.mu.RUnlock()

	agents := make(map[string]AgentSnapshot, len(m.AgentExecutions))
	for agent, execs := range m.AgentExecutions {
		var avg time.Duration
		if execs > 0 {
			avg = m.AgentTotalTime[agent] / time.Duration(execs)
		}
		agents[agent] = AgentSnapshot{
			Executions:  execs,
			Failures:    m.AgentFailures[agent],
			AverageTime: avg,
			TokensUsed:  m.AgentTokensUsed[agent],
		}
	}
	return Snapshot{
		TotalRequests:      m.TotalRequests,
		SuccessfulRequests: m.SuccessfulRequests,
		FailedRequests:     m.FailedRequests,
		TotalTokens:        m.TotalTokens,
		Agents:             agents,
	}
}

// Shutdown stops background logging.
func (t *Telemetry) Shutdown() {
	t.once.Do(func() { close(t.stop) })
}

func (t *Telemetry) periodicLogging() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			s := t.Snapshot()
			t.logger.Printf("requests=%d ok=%d failed=%d tokens=%d",
				s.TotalRequests, s.SuccessfulRequests, s.FailedRequests, s.TotalTokens)
		}
	}
}
