package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// salesHistory builds days of history ending the day before asOf, selling
// weekdayQty on weekdays and weekendQty on weekends.
func salesHistory(asOf time.Time, days, weekdayQty, weekendQty int) []domain.SalesRecord {
	history := make([]domain.SalesRecord, 0, days)
	for i := days; i >= 1; i-- {
		d := asOf.AddDate(0, 0, -i)
		qty := weekdayQty
		if isWeekend(d) {
			qty = weekendQty
		}
		history = append(history, domain.SalesRecord{
			StoreID: 1, SKUID: 1, TsDate: d, QtySold: qty,
		})
	}
	return history
}

func TestForecastWeekdayWeekendSplit(t *testing.T) {
	e := newTestEngine()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	f := e.Forecast(salesHistory(asOf, 28, 10, 20), 0)

	if f.Estimated {
		t.Fatalf("28 days of history should not be estimated")
	}
	if !almostEqual(f.WeekdayAvg, 10) {
		t.Fatalf("WeekdayAvg = %v, want 10", f.WeekdayAvg)
	}
	if !almostEqual(f.WeekendAvg, 20) {
		t.Fatalf("WeekendAvg = %v, want 20", f.WeekendAvg)
	}
	// (10*5 + 20*2) / 7
	if want := round2(90.0 / 7); !almostEqual(f.DailyDemand, want) {
		t.Fatalf("DailyDemand = %v, want %v", f.DailyDemand, want)
	}
	if f.Confidence != domain.ConfidenceHigh {
		t.Fatalf("Confidence = %q, want high", f.Confidence)
	}
	if f.DataPoints != 28 {
		t.Fatalf("DataPoints = %d, want 28", f.DataPoints)
	}
}

func TestForecastThinHistoryFallsBackToBaseline(t *testing.T) {
	e := newTestEngine()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	f := e.Forecast(salesHistory(asOf, 3, 10, 20), 4.5)

	if !f.Estimated {
		t.Fatalf("3 data points must yield an estimated forecast")
	}
	if !almostEqual(f.DailyDemand, 4.5) {
		t.Fatalf("DailyDemand = %v, want baseline 4.5", f.DailyDemand)
	}
	if f.Confidence != domain.ConfidenceLow {
		t.Fatalf("Confidence = %q, want low", f.Confidence)
	}
	if f.DataPoints != 3 {
		t.Fatalf("DataPoints = %d, want 3", f.DataPoints)
	}
}

func TestForecastThinHistoryNoBaseline(t *testing.T) {
	e := newTestEngine()

	f := e.Forecast(nil, 0)
	if !f.Estimated || f.DailyDemand != 0 {
		t.Fatalf("empty history without baseline: got estimated=%v demand=%v, want estimated zero",
			f.Estimated, f.DailyDemand)
	}
}

func TestForecastStdIsZeroForConstantSales(t *testing.T) {
	e := newTestEngine()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	f := e.Forecast(salesHistory(asOf, 28, 10, 10), 0)
	if !almostEqual(f.DemandStd, 0) {
		t.Fatalf("DemandStd = %v, want 0 for constant sales", f.DemandStd)
	}
}

func TestNextDaysWeekendFlags(t *testing.T) {
	e := newTestEngine()
	// A Monday, so the projection runs Tuesday through Monday.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	f := domain.DemandForecast{WeekdayAvg: 10, WeekendAvg: 20}
	days := e.NextDays(f, monday, 7)

	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	if !days[0].Date.Equal(monday.AddDate(0, 0, 1)) {
		t.Fatalf("projection starts %v, want the day after %v", days[0].Date, monday)
	}

	var weekendCount int
	for _, d := range days {
		want := 10.0
		if d.IsWeekend {
			want = 20.0
			weekendCount++
		}
		if !almostEqual(d.PredictedDemand, want) {
			t.Fatalf("%v: PredictedDemand = %v, want %v", d.Date, d.PredictedDemand, want)
		}
	}
	if weekendCount != 2 {
		t.Fatalf("weekend days = %d, want 2", weekendCount)
	}
}

func hourlySamples(e *Engine, weeks int, qtyPerHour int) []domain.HourlySales {
	var samples []domain.HourlySales
	start := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC) // a Monday
	for w := 0; w < weeks; w++ {
		day := start.AddDate(0, 0, w*7)
		for hour := e.cfg.OpenHour; hour < e.cfg.CloseHour; hour++ {
			ts := day.Add(time.Duration(hour) * time.Hour)
			samples = append(samples, domain.HourlySales{
				StoreID:   1,
				SKUID:     1,
				TsTime:    ts,
				HourOfDay: hour,
				DayOfWeek: int(ts.Weekday()),
				QtySold:   qtyPerHour,
			})
		}
	}
	return samples
}

func TestHourlyCurveObserved(t *testing.T) {
	e := newTestEngine()
	daily := 32.0

	curve := e.HourlyCurve(hourlySamples(e, 6, 2), daily, time.Monday)

	if curve.Source != domain.CurveObserved {
		t.Fatalf("Source = %q, want observed", curve.Source)
	}
	if curve.Confidence != domain.ConfidenceHigh {
		t.Fatalf("Confidence = %q, want high for 6 weeks of data", curve.Confidence)
	}
	if len(curve.Slots) != 24 {
		t.Fatalf("len(Slots) = %d, want 24", len(curve.Slots))
	}

	var total float64
	for _, s := range curve.Slots {
		if s.Hour < e.cfg.OpenHour || s.Hour >= e.cfg.CloseHour {
			if s.PredictedDemand != 0 {
				t.Fatalf("closed hour %d has demand %v", s.Hour, s.PredictedDemand)
			}
			continue
		}
		total += s.PredictedDemand
	}
	if math.Abs(total-daily) > 0.2 {
		t.Fatalf("open-hours total = %v, want ~%v", total, daily)
	}

	// Flat sales in, so peak slots must stand above off-peak purely from the
	// uplift.
	lunch := curve.Slots[12].PredictedDemand
	offPeak := curve.Slots[9].PredictedDemand
	if lunch <= offPeak {
		t.Fatalf("peak slot %v not above off-peak slot %v", lunch, offPeak)
	}
}

func TestHourlyCurveEstimatedFallback(t *testing.T) {
	e := newTestEngine()
	daily := 35.0

	curve := e.HourlyCurve(nil, daily, time.Monday)

	if curve.Source != domain.CurveEstimated {
		t.Fatalf("Source = %q, want estimated without hourly data", curve.Source)
	}
	if curve.Confidence != domain.ConfidenceLow {
		t.Fatalf("Confidence = %q, want low", curve.Confidence)
	}

	var total float64
	for _, s := range curve.Slots {
		total += s.PredictedDemand
	}
	if math.Abs(total-daily) > 0.2 {
		t.Fatalf("estimated curve total = %v, want ~%v", total, daily)
	}
	if curve.Slots[12].PredictedDemand <= curve.Slots[9].PredictedDemand {
		t.Fatalf("estimated curve must weight peaks above off-peak hours")
	}
}

func TestReorderPoint(t *testing.T) {
	e := newTestEngine()

	advice := e.Reorder(domain.DemandForecast{DailyDemand: 10, DemandStd: 4})

	// safety = 10*2 + 4*1.65 = 26.6; reorder point = 10*3 + 26.6 = 56.6
	if advice.SafetyStock != 27 {
		t.Fatalf("SafetyStock = %v, want 27", advice.SafetyStock)
	}
	if advice.ReorderPoint != 57 {
		t.Fatalf("ReorderPoint = %v, want 57", advice.ReorderPoint)
	}
	if advice.OrderQty != 140 {
		t.Fatalf("OrderQty = %v, want 140", advice.OrderQty)
	}
}
