// Package hooks provides Logger and Hook implementations for observing
// pipeline stages.
package hooks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/savishkar/mediakit/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs the outcome of each pipeline stage.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook {
	return &LoggingHook{logger: core.OrNop(l)}
}

func (h *LoggingHook) BeforeStage(_ context.Context, stage string) {
	h.logger.Debug("pipeline.stage.start", "stage", stage)
}

func (h *LoggingHook) AfterStage(_ context.Context, stage string, res core.StageResult, err error) {
	if err != nil {
		h.logger.Error("pipeline.stage.error",
			"stage", stage,
			"duration_ms", res.Elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	fields := []interface{}{
		"stage", stage,
		"duration_ms", res.Elapsed.Milliseconds(),
	}
	if res.Asset != nil {
		fields = append(fields,
			"width", res.Asset.Width,
			"height", res.Asset.Height,
			"bytes_out", len(res.Asset.Data),
		)
	}
	if res.Result != nil {
		fields = append(fields, "url", res.Result.URL)
	}
	h.logger.Debug("pipeline.stage.done", fields...)
}

// ── In-memory metrics ─────────────────────────────────────────────────────────

// InMemoryMetrics accumulates per-stage counters; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64
	stageCalls       map[string]int64
	stageErrors      map[string]int64
	bytesOut         int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageErrors:      make(map[string]int64),
	}
}

func (m *InMemoryMetrics) BeforeStage(_ context.Context, _ string) {}

func (m *InMemoryMetrics) AfterStage(_ context.Context, stage string, res core.StageResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageDurationsMs[stage] += res.Elapsed.Milliseconds()
	m.stageCalls[stage]++
	if err != nil {
		m.stageErrors[stage]++
	}
	if res.Asset != nil {
		m.bytesOut += int64(len(res.Asset.Data))
	}
}

// Snapshot returns a point-in-time copy of the counters.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsMs: make(map[string]int64, len(m.stageDurationsMs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		StageErrors:      make(map[string]int64, len(m.stageErrors)),
		BytesOut:         m.bytesOut,
	}
	for k, v := range m.stageDurationsMs {
		snap.StageDurationsMs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	for k, v := range m.stageErrors {
		snap.StageErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable copy of the collected metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageErrors      map[string]int64
	BytesOut         int64
}
