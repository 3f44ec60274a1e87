// Package analytics is the inventory analytics engine: demand forecasting,
// anomaly detection, confidence scoring, stockout prediction, transfer
// recommendation and prep scheduling.
//
// Every computation here is a pure function of the history passed in; the
// engine holds no mutable state and never touches storage. Callers fetch the
// relevant time series and hand it over, so computations for different
// (store, SKU) pairs can run in parallel freely.
package analytics

import (
	"math"
	"time"

	"github.com/shelfsense/backend/internal/config"
)

// Engine evaluates inventory analytics under a fixed policy.
type Engine struct {
	cfg config.EngineConfig
}

// NewEngine creates an engine with the given policy.
func NewEngine(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine policy.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// round1 and round2 keep derived numbers presentable without the callers
// re-rounding.
func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// weightedAverage computes an exponential-decay weighted mean where the most
// recent value carries the highest weight. Values must be ordered oldest
// first.
func weightedAverage(values []float64, decay float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var weightedSum, weightSum float64
	weight := math.Pow(decay, float64(len(values)-1))
	for _, v := range values {
		weightedSum += v * weight
		weightSum += weight
		weight /= decay
	}

	if weightSum <= 0 {
		return 0
	}
	return weightedSum / weightSum
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
