package analytics

import (
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// makeCurve builds a 24-slot curve from an hour->demand map with peak flags
// filled in from the engine calendar.
func makeCurve(e *Engine, demand map[int]float64) domain.HourlyCurve {
	slots := make([]domain.HourlySlot, 24)
	for hour := 0; hour < 24; hour++ {
		slots[hour] = domain.HourlySlot{
			Hour:            hour,
			PredictedDemand: demand[hour],
			IsPeakHour:      e.IsPeakHour(hour),
			PeakPeriod:      e.PeakPeriod(hour),
		}
	}
	return domain.HourlyCurve{Slots: slots, Source: domain.CurveObserved}
}

// busyDayCurve sells 60 units across the day with lunch and dinner spikes.
func busyDayCurve(e *Engine) domain.HourlyCurve {
	demand := map[int]float64{}
	for h := 6; h <= 10; h++ {
		demand[h] = 2
	}
	for h := 11; h <= 13; h++ {
		demand[h] = 8
	}
	for h := 14; h <= 16; h++ {
		demand[h] = 2
	}
	for h := 17; h <= 19; h++ {
		demand[h] = 6
	}
	demand[20], demand[21] = 1, 1
	return makeCurve(e, demand)
}

func TestPredictStockoutDuringLunchPeak(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)

	// 30 on hand against a 60-unit day: drains to -4 in the 13:00 slot.
	p := e.PredictStockout(30, busyDayCurve(e), now)

	if !p.WillStockout {
		t.Fatalf("expected stockout, got %+v", p)
	}
	if p.StockoutHour != 13 {
		t.Fatalf("StockoutHour = %d, want 13", p.StockoutHour)
	}
	if !p.IsDuringPeak || p.PeakPeriod != domain.PeakLunch {
		t.Fatalf("peak = (%v, %q), want lunch peak", p.IsDuringPeak, p.PeakPeriod)
	}
	if p.Severity != domain.SeverityCritical {
		t.Fatalf("Severity = %q, want critical for a peak stockout", p.Severity)
	}
	if p.HoursUntil != 7 {
		t.Fatalf("HoursUntil = %d, want 7", p.HoursUntil)
	}
	if !almostEqual(p.Deficit, 4) {
		t.Fatalf("Deficit = %v, want 4", p.Deficit)
	}

	want := time.Date(2026, 8, 31, 13, 30, 0, 0, time.UTC)
	if p.StockoutTime == nil || !p.StockoutTime.Equal(want) {
		t.Fatalf("StockoutTime = %v, want %v", p.StockoutTime, want)
	}
}

func TestPredictStockoutOffPeakSeverity(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)

	// 35 on hand: survives lunch, dies in the 14:00 lull.
	p := e.PredictStockout(35, busyDayCurve(e), now)

	if !p.WillStockout || p.StockoutHour != 14 {
		t.Fatalf("got %+v, want stockout at hour 14", p)
	}
	if p.IsDuringPeak {
		t.Fatalf("hour 14 flagged as peak")
	}
	if p.Severity != domain.SeverityHigh {
		t.Fatalf("Severity = %q, want high off peak", p.Severity)
	}
}

func TestPredictStockoutSurvivesDay(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)

	p := e.PredictStockout(100, busyDayCurve(e), now)

	if p.WillStockout {
		t.Fatalf("100 on hand against a 60-unit day must survive: %+v", p)
	}
	if !almostEqual(p.RemainingAtEnd, 40) {
		t.Fatalf("RemainingAtEnd = %v, want 40", p.RemainingAtEnd)
	}
	want := time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC)
	if p.SafeUntil == nil || !p.SafeUntil.Equal(want) {
		t.Fatalf("SafeUntil = %v, want close of day %v", p.SafeUntil, want)
	}
}

func TestPredictStockoutSkipsPastHours(t *testing.T) {
	e := newTestEngine()
	// Mid-afternoon: the morning and lunch demand is already history.
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)

	p := e.PredictStockout(10, busyDayCurve(e), now)

	if !p.WillStockout || p.StockoutHour != 17 {
		t.Fatalf("got %+v, want stockout at hour 17", p)
	}
	if p.PeakPeriod != domain.PeakDinner {
		t.Fatalf("PeakPeriod = %q, want dinner", p.PeakPeriod)
	}
	if p.HoursUntil != 3 {
		t.Fatalf("HoursUntil = %d, want 3", p.HoursUntil)
	}
}

func TestPredictStockoutMonotoneInOnHand(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	curve := busyDayCurve(e)

	prevHour := -1
	for onHand := 5; onHand <= 70; onHand += 5 {
		p := e.PredictStockout(onHand, curve, now)
		if !p.WillStockout {
			break // every larger stock level also survives
		}
		if p.StockoutHour < prevHour {
			t.Fatalf("stockout hour moved earlier (%d -> %d) as stock grew to %d",
				prevHour, p.StockoutHour, onHand)
		}
		prevHour = p.StockoutHour
	}
}

func TestDaysOfCover(t *testing.T) {
	e := newTestEngine()

	if got := e.DaysOfCover(20, 4); !almostEqual(got, 5) {
		t.Fatalf("DaysOfCover(20, 4) = %v, want 5", got)
	}
	if got := e.DaysOfCover(20, 0); got != daysOfCoverCap {
		t.Fatalf("DaysOfCover at zero demand = %v, want cap", got)
	}
	if got := e.DaysOfCover(0, 4); !almostEqual(got, 0) {
		t.Fatalf("DaysOfCover(0, 4) = %v, want 0", got)
	}
}

func TestStockoutDate(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	if d := e.StockoutDate(20, 0.05, now); d != nil {
		t.Fatalf("StockoutDate at negligible demand = %v, want nil", d)
	}

	d := e.StockoutDate(20, 4, now)
	if d == nil || !d.Equal(now.AddDate(0, 0, 5)) {
		t.Fatalf("StockoutDate = %v, want %v", d, now.AddDate(0, 0, 5))
	}
}
