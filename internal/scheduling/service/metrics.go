package service

import (
	"sync/atomic"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

// Metrics tracks scheduling counters for the admin metrics endpoint.
type Metrics struct {
	generationsCreated int64
	generationsSkipped int64
	generationsFailed  int64
	generationLatency  int64 // total, nanoseconds
	batchRuns          int64
	readinessCalls     int64
	statusUpdates      int64
	statusRejected     int64
}

var globalMetrics = &Metrics{}

// MetricsSnapshot is the JSON view of Metrics.
type MetricsSnapshot struct {
	GenerationsCreated  int64   `json:"generations_created"`
	GenerationsSkipped  int64   `json:"generations_skipped"`
	GenerationsFailed   int64   `json:"generations_failed"`
	AvgGenerationMillis float64 `json:"avg_generation_ms"`
	BatchRuns           int64   `json:"batch_runs"`
	ReadinessCalls      int64   `json:"readiness_calls"`
	StatusUpdates       int64   `json:"status_updates"`
	StatusRejected      int64   `json:"status_rejected"`
}

// GetMetrics returns the current metrics snapshot
func GetMetrics() MetricsSnapshot {
	m := MetricsSnapshot{
		GenerationsCreated: atomic.LoadInt64(&globalMetrics.generationsCreated),
		GenerationsSkipped: atomic.LoadInt64(&globalMetrics.generationsSkipped),
		GenerationsFailed:  atomic.LoadInt64(&globalMetrics.generationsFailed),
		BatchRuns:          atomic.LoadInt64(&globalMetrics.batchRuns),
		ReadinessCalls:     atomic.LoadInt64(&globalMetrics.readinessCalls),
		StatusUpdates:      atomic.LoadInt64(&globalMetrics.statusUpdates),
		StatusRejected:     atomic.LoadInt64(&globalMetrics.statusRejected),
	}
	total := m.GenerationsCreated + m.GenerationsSkipped + m.GenerationsFailed
	if total > 0 {
		m.AvgGenerationMillis = float64(atomic.LoadInt64(&globalMetrics.generationLatency)) / float64(total) / 1e6
	}
	return m
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.generationsCreated, 0)
	atomic.StoreInt64(&globalMetrics.generationsSkipped, 0)
	atomic.StoreInt64(&globalMetrics.generationsFailed, 0)
	atomic.StoreInt64(&globalMetrics.generationLatency, 0)
	atomic.StoreInt64(&globalMetrics.batchRuns, 0)
	atomic.StoreInt64(&globalMetrics.readinessCalls, 0)
	atomic.StoreInt64(&globalMetrics.statusUpdates, 0)
	atomic.StoreInt64(&globalMetrics.statusRejected, 0)
}

func recordGeneration(kind domain.OutcomeKind, duration time.Duration) {
	atomic.AddInt64(&globalMetrics.generationLatency, duration.Nanoseconds())
	switch kind {
	case domain.OutcomeCreated:
		atomic.AddInt64(&globalMetrics.generationsCreated, 1)
	case domain.OutcomeSkipped:
		atomic.AddInt64(&globalMetrics.generationsSkipped, 1)
	default:
		atomic.AddInt64(&globalMetrics.generationsFailed, 1)
	}
}

func recordBatchRun() {
	atomic.AddInt64(&globalMetrics.batchRuns, 1)
}

func recordReadinessCall() {
	atomic.AddInt64(&globalMetrics.readinessCalls, 1)
}

func recordStatusUpdate(err error) {
	if err != nil {
		atomic.AddInt64(&globalMetrics.statusRejected, 1)
		return
	}
	atomic.AddInt64(&globalMetrics.statusUpdates, 1)
}
