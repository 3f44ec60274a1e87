package analytics

import (
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// daysOfCoverCap is returned when demand is effectively zero so callers
// never divide by a near-zero estimate.
const daysOfCoverCap = 999

// DaysOfCover returns how many days the current on-hand figure lasts at the
// forecast demand rate.
func (e *Engine) DaysOfCover(onHand int, dailyDemand float64) float64 {
	if dailyDemand < 0.1 {
		return daysOfCoverCap
	}
	cover := float64(onHand) / dailyDemand
	if cover > daysOfCoverCap {
		return daysOfCoverCap
	}
	return round1(cover)
}

// StockoutDate projects the calendar date the item runs out, or nil when
// demand is too low to project.
func (e *Engine) StockoutDate(onHand int, dailyDemand float64, now time.Time) *time.Time {
	cover := e.DaysOfCover(onHand, dailyDemand)
	if cover >= daysOfCoverCap {
		return nil
	}
	d := now.AddDate(0, 0, int(cover))
	return &d
}

// PredictStockout walks today's hourly demand curve hour by hour, draining
// the on-hand figure, and reports the first hour inventory goes non-positive.
// Hours already past are skipped; the reported stockout time is pinned to the
// half hour as a deliberate signal that the estimate is hour-granular.
func (e *Engine) PredictStockout(onHand int, curve domain.HourlyCurve, now time.Time) domain.StockoutPrediction {
	remaining := float64(onHand)
	startHour := now.Hour()
	midnight := dateOnly(now)

	for _, slot := range curve.Slots {
		if slot.Hour < startHour || !e.IsOpenHour(slot.Hour) {
			continue
		}

		remaining -= slot.PredictedDemand
		if remaining > 0 {
			continue
		}

		stockoutAt := midnight.Add(time.Duration(slot.Hour)*time.Hour + 30*time.Minute)
		severity := domain.SeverityHigh
		if slot.IsPeakHour {
			severity = domain.SeverityCritical
		}

		return domain.StockoutPrediction{
			WillStockout: true,
			StockoutTime: &stockoutAt,
			StockoutHour: slot.Hour,
			HoursUntil:   slot.Hour - startHour,
			IsDuringPeak: slot.IsPeakHour,
			PeakPeriod:   slot.PeakPeriod,
			Severity:     severity,
			Deficit:      round2(-remaining),
		}
	}

	// Survives the trading day. Safe at least until close.
	safeUntil := midnight.Add(time.Duration(e.cfg.CloseHour) * time.Hour)
	return domain.StockoutPrediction{
		WillStockout:   false,
		SafeUntil:      &safeUntil,
		RemainingAtEnd: round2(remaining),
	}
}
