package analytics

import (
	"math"
	"testing"

	"github.com/shelfsense/backend/internal/config"
)

// testEngineConfig mirrors the default calibration so tests exercise the
// numbers the engine ships with.
func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		ForecastWindowDays:  28,
		MinObservations:     7,
		DecayFactor:         0.95,
		HourlyLookbackWeeks: 8,
		PeakDemandUplift:    1.15,

		AnomalyLookbackDays:  30,
		MinResidualUnits:     5,
		PatternMinEvents:     3,
		PatternNegativeRatio: 0.6,

		AnomalyEventPenalty:  5,
		AnomalyEventCap:      30,
		MagnitudePenaltyRate: 0.5,
		MagnitudeCap:         20,
		StalenessPenaltyRate: 0.3,
		StalenessCap:         20,
		StalenessGraceDays:   14,
		NeverCountedPenalty:  30,
		PerishablePenalty:    10,
		PerishableRecentDays: 7,
		PatternPenalty:       15,

		OpenHour:        6,
		CloseHour:       22,
		LunchStartHour:  11,
		LunchEndHour:    14,
		DinnerStartHour: 17,
		DinnerEndHour:   20,

		TargetCoverDays:   10,
		SafetyBufferDays:  2,
		MinDonorCoverDays: 3,
		MinUrgency:        0.5,
		MaxTransferDays:   7,
		PerKmRate:         1.5,
		StockoutSavings:   50,

		PrepLeadTimeHours: 2,
		PrepBufferPct:     0.10,

		ReorderLeadTimeDays:  3,
		ReorderSafetyDays:    2,
		ReorderServiceLevelZ: 1.65,

		MaxParallelComputations: 8,
	}
}

func newTestEngine() *Engine {
	return NewEngine(testEngineConfig())
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestWeightedAverageFavorsRecent(t *testing.T) {
	// Oldest first: demand doubled recently, so the weighted mean must sit
	// above the plain mean.
	values := []float64{10, 10, 10, 20, 20, 20}
	got := weightedAverage(values, 0.95)
	if got <= 15 {
		t.Fatalf("weightedAverage = %v, want > plain mean 15", got)
	}
	if got >= 20 {
		t.Fatalf("weightedAverage = %v, want < 20", got)
	}
}

func TestWeightedAverageEmpty(t *testing.T) {
	if got := weightedAverage(nil, 0.95); got != 0 {
		t.Fatalf("weightedAverage(nil) = %v, want 0", got)
	}
}

func TestWeightedAverageConstantSeries(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7}
	if got := weightedAverage(values, 0.95); !almostEqual(got, 7) {
		t.Fatalf("weightedAverage(constant 7) = %v, want 7", got)
	}
}
