package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

func snapshotSeries(start time.Time, onHand ...int) []domain.InventorySnapshot {
	snaps := make([]domain.InventorySnapshot, len(onHand))
	for i, oh := range onHand {
		snaps[i] = domain.InventorySnapshot{
			StoreID: 1, SKUID: 1,
			TsDate: start.AddDate(0, 0, i),
			OnHand: oh,
		}
	}
	return snaps
}

func TestDetectAnomaliesExplainedChangeIsClean(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 100 -> 90: exactly the 10 recorded sales. Nothing to flag.
	snaps := snapshotSeries(start, 100, 90)
	movements := []domain.DayMovements{
		{TsDate: start.AddDate(0, 0, 1), Sales: 10},
	}

	got := e.DetectAnomalies(1, 1, snaps, movements, 3)
	if len(got) != 0 {
		t.Fatalf("explained delta flagged as anomaly: %+v", got)
	}
}

func TestDetectAnomaliesUnexplainedShrink(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 100 -> 80 with only 10 sold: 10 units walked off.
	snaps := snapshotSeries(start, 100, 80)
	movements := []domain.DayMovements{
		{TsDate: start.AddDate(0, 0, 1), Sales: 10},
	}

	got := e.DetectAnomalies(1, 1, snaps, movements, 4)
	if len(got) != 1 {
		t.Fatalf("anomalies = %d, want 1", len(got))
	}

	a := got[0]
	if !almostEqual(a.Residual, -10) {
		t.Fatalf("Residual = %v, want -10", a.Residual)
	}
	if a.ExpectedDelta != -10 || a.ActualDelta != -20 {
		t.Fatalf("deltas = (%d, %d), want (-10, -20)", a.ExpectedDelta, a.ActualDelta)
	}
	if a.Severity != domain.SeverityHigh {
		t.Fatalf("Severity = %q, want high (|residual| between 2 and 3 sigma)", a.Severity)
	}
	if !strings.Contains(a.Explanation, "sales") {
		t.Fatalf("explanation should mention sales context, got %q", a.Explanation)
	}
}

func TestDetectAnomaliesSeverityScalesWithSigma(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Residual -9 at sigma 3 is exactly 3 sigma: critical.
	snaps := snapshotSeries(start, 100, 91)
	got := e.DetectAnomalies(1, 1, snaps, nil, 3)
	if len(got) != 1 || got[0].Severity != domain.SeverityCritical {
		t.Fatalf("got %+v, want one critical anomaly", got)
	}
}

func TestDetectAnomaliesSmallResidualBelowFloor(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 3-unit wobble on a near-zero-variance item stays under the 5-unit
	// floor.
	snaps := snapshotSeries(start, 50, 47)
	got := e.DetectAnomalies(1, 1, snaps, nil, 0.2)
	if len(got) != 0 {
		t.Fatalf("sub-floor residual flagged: %+v", got)
	}
}

func TestDetectAnomaliesSkipsGapsInHistory(t *testing.T) {
	e := newTestEngine()
	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	day5 := day1.AddDate(0, 0, 4)

	snaps := []domain.InventorySnapshot{
		{StoreID: 1, SKUID: 1, TsDate: day1, OnHand: 100},
		{StoreID: 1, SKUID: 1, TsDate: day5, OnHand: 60},
	}

	got := e.DetectAnomalies(1, 1, snaps, nil, 3)
	if len(got) != 0 {
		t.Fatalf("multi-day gap must not be reconciled as one day: %+v", got)
	}
}

func TestDetectAnomaliesIdempotent(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	snaps := snapshotSeries(start, 100, 80, 70, 50)
	movements := []domain.DayMovements{
		{TsDate: start.AddDate(0, 0, 1), Sales: 10},
		{TsDate: start.AddDate(0, 0, 2), Sales: 10},
		{TsDate: start.AddDate(0, 0, 3), Sales: 10},
	}

	first := e.DetectAnomalies(1, 1, snaps, movements, 3)
	second := e.DetectAnomalies(1, 1, snaps, movements, 3)

	if len(first) != len(second) {
		t.Fatalf("detection not stable: %d vs %d anomalies", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("anomaly %d differs between runs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestFindPatternSystematicShrink(t *testing.T) {
	e := newTestEngine()
	// Three losing Mondays in a row.
	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	anomalies := []domain.Anomaly{
		{TsDate: monday, Residual: -8},
		{TsDate: monday.AddDate(0, 0, 7), Residual: -6},
		{TsDate: monday.AddDate(0, 0, 14), Residual: -10},
	}

	p := e.FindPattern(anomalies)
	if !p.HasPattern {
		t.Fatalf("3 negative events at ratio 1.0 must form a pattern")
	}
	if p.PatternType != "systematic_shrink" {
		t.Fatalf("PatternType = %q, want systematic_shrink", p.PatternType)
	}
	if !almostEqual(p.TotalLoss, 24) {
		t.Fatalf("TotalLoss = %v, want 24", p.TotalLoss)
	}
	if p.CadenceDay != "Monday" {
		t.Fatalf("CadenceDay = %q, want Monday", p.CadenceDay)
	}
}

func TestFindPatternMixedSignsBelowRatio(t *testing.T) {
	e := newTestEngine()
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	// 3 of 6 negative: ratio 0.5 is under the 0.6 bar.
	anomalies := []domain.Anomaly{
		{TsDate: day, Residual: -8},
		{TsDate: day.AddDate(0, 0, 1), Residual: 7},
		{TsDate: day.AddDate(0, 0, 2), Residual: -6},
		{TsDate: day.AddDate(0, 0, 3), Residual: 9},
		{TsDate: day.AddDate(0, 0, 4), Residual: -5},
		{TsDate: day.AddDate(0, 0, 5), Residual: 6},
	}

	if p := e.FindPattern(anomalies); p.HasPattern {
		t.Fatalf("ratio 0.5 flagged as pattern: %+v", p)
	}
}

func TestFindPatternEmpty(t *testing.T) {
	e := newTestEngine()
	if p := e.FindPattern(nil); p.HasPattern || p.Frequency != 0 {
		t.Fatalf("empty input produced %+v", p)
	}
}
