package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// Forecast estimates daily demand from the sales history of one store/SKU.
// History must be ordered oldest first. baseline is the category-level daily
// demand used as a fallback when the history is too thin to trust; the
// result is tagged Estimated in that case instead of failing.
func (e *Engine) Forecast(history []domain.SalesRecord, baseline float64) domain.DemandForecast {
	if len(history) < e.cfg.MinObservations {
		f := domain.DemandForecast{
			Confidence: domain.ConfidenceLow,
			DataPoints: len(history),
			Estimated:  true,
		}
		if baseline > 0 {
			f.DailyDemand = round2(baseline)
			f.WeekdayAvg = round2(baseline)
			f.WeekendAvg = round2(baseline)
		}
		return f
	}

	var weekday, weekend, all []float64
	for _, s := range history {
		qty := float64(s.QtySold)
		all = append(all, qty)
		if isWeekend(s.TsDate) {
			weekend = append(weekend, qty)
		} else {
			weekday = append(weekday, qty)
		}
	}

	weekdayAvg := weightedAverage(weekday, e.cfg.DecayFactor)
	weekendAvg := weightedAverage(weekend, e.cfg.DecayFactor)

	// Overall average weighted by calendar frequency: 5 weekdays, 2 weekend
	// days.
	var daily float64
	if weekdayAvg > 0 || weekendAvg > 0 {
		daily = (weekdayAvg*5 + weekendAvg*2) / 7
	}

	var std float64
	if len(all) > 1 {
		var mean float64
		for _, v := range all {
			mean += v
		}
		mean /= float64(len(all))

		var variance float64
		for _, v := range all {
			variance += (v - mean) * (v - mean)
		}
		std = math.Sqrt(variance / float64(len(all)))
	}

	confidence := domain.ConfidenceLow
	switch {
	case float64(len(history)) >= float64(e.cfg.ForecastWindowDays)*0.8:
		confidence = domain.ConfidenceHigh
	case float64(len(history)) >= float64(e.cfg.ForecastWindowDays)*0.5:
		confidence = domain.ConfidenceMedium
	}

	return domain.DemandForecast{
		DailyDemand: round2(daily),
		DemandStd:   round2(std),
		WeekdayAvg:  round2(weekdayAvg),
		WeekendAvg:  round2(weekendAvg),
		Confidence:  confidence,
		DataPoints:  len(history),
	}
}

// NextDays projects the weekday/weekend averages onto the next n calendar
// days starting the day after from.
func (e *Engine) NextDays(f domain.DemandForecast, from time.Time, n int) []domain.DailyPrediction {
	predictions := make([]domain.DailyPrediction, 0, n)
	start := dateOnly(from).AddDate(0, 0, 1)

	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		weekend := isWeekend(d)

		demand := f.WeekdayAvg
		if weekend {
			demand = f.WeekendAvg
		}

		predictions = append(predictions, domain.DailyPrediction{
			Date:            d,
			PredictedDemand: round1(demand),
			IsWeekend:       weekend,
		})
	}

	return predictions
}

// HourlyCurve derives the 24-slot intraday demand shape for one store/SKU.
// When hourly sales exist the curve is observed: per-hour decay-weighted
// means, preferring samples from the same day of week, normalized so the
// open-hours total matches dailyDemand. Without hourly data the curve is
// synthesized from dailyDemand with a two-peak default shape and tagged
// estimated so callers can tell the difference.
func (e *Engine) HourlyCurve(hourly []domain.HourlySales, dailyDemand float64, dayOfWeek time.Weekday) domain.HourlyCurve {
	if len(hourly) == 0 {
		return e.estimatedCurve(dailyDemand)
	}

	// Most recent first per hour so the decay weighting favours recency.
	sorted := append([]domain.HourlySales(nil), hourly...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TsTime.Before(sorted[j].TsTime) })

	byHour := make(map[int][]float64, 24)
	byHourSameDow := make(map[int][]float64, 24)
	for _, s := range sorted {
		byHour[s.HourOfDay] = append(byHour[s.HourOfDay], float64(s.QtySold))
		if s.DayOfWeek == int(dayOfWeek) {
			byHourSameDow[s.HourOfDay] = append(byHourSameDow[s.HourOfDay], float64(s.QtySold))
		}
	}

	raw := make([]float64, 24)
	var total float64
	for hour := 0; hour < 24; hour++ {
		if !e.IsOpenHour(hour) {
			continue
		}

		samples := byHourSameDow[hour]
		if len(samples) == 0 {
			samples = byHour[hour]
		}
		if n := e.cfg.HourlyLookbackWeeks; len(samples) > n {
			samples = samples[len(samples)-n:]
		}

		demand := weightedAverage(samples, e.cfg.DecayFactor)
		if e.IsPeakHour(hour) {
			demand *= e.cfg.PeakDemandUplift
		}
		raw[hour] = demand
		total += demand
	}

	// Normalize so the open-hours sum approximates the daily estimate.
	scale := 1.0
	if total > 0 && dailyDemand > 0 {
		scale = dailyDemand / total
	}

	slots := make([]domain.HourlySlot, 24)
	for hour := 0; hour < 24; hour++ {
		slots[hour] = domain.HourlySlot{
			Hour:            hour,
			PredictedDemand: round2(raw[hour] * scale),
			IsPeakHour:      e.IsPeakHour(hour),
			PeakPeriod:      e.PeakPeriod(hour),
		}
	}

	openHours := e.cfg.CloseHour - e.cfg.OpenHour
	weeks := 0
	if openHours > 0 {
		weeks = len(hourly) / openHours
	}
	confidence := domain.ConfidenceLow
	switch {
	case weeks >= 6:
		confidence = domain.ConfidenceHigh
	case weeks >= 3:
		confidence = domain.ConfidenceMedium
	}

	return domain.HourlyCurve{
		Slots:      slots,
		Source:     domain.CurveObserved,
		Confidence: confidence,
		DataPoints: len(hourly),
	}
}

// estimatedCurve spreads the daily estimate over operating hours with
// elevated weight inside peak windows.
func (e *Engine) estimatedCurve(dailyDemand float64) domain.HourlyCurve {
	weights := make([]float64, 24)
	var total float64
	for hour := 0; hour < 24; hour++ {
		if !e.IsOpenHour(hour) {
			continue
		}
		w := 1.0
		if e.IsPeakHour(hour) {
			w = 2.2
		}
		weights[hour] = w
		total += w
	}

	slots := make([]domain.HourlySlot, 24)
	for hour := 0; hour < 24; hour++ {
		var demand float64
		if total > 0 {
			demand = dailyDemand * weights[hour] / total
		}
		slots[hour] = domain.HourlySlot{
			Hour:            hour,
			PredictedDemand: round2(demand),
			IsPeakHour:      e.IsPeakHour(hour),
			PeakPeriod:      e.PeakPeriod(hour),
		}
	}

	return domain.HourlyCurve{
		Slots:      slots,
		Source:     domain.CurveEstimated,
		Confidence: domain.ConfidenceLow,
	}
}

// Reorder computes the reorder point for a forecast at a 95% service level.
func (e *Engine) Reorder(f domain.DemandForecast) domain.ReorderAdvice {
	safetyStock := f.DailyDemand*float64(e.cfg.ReorderSafetyDays) + f.DemandStd*e.cfg.ReorderServiceLevelZ
	reorderPoint := f.DailyDemand*float64(e.cfg.ReorderLeadTimeDays) + safetyStock

	return domain.ReorderAdvice{
		ReorderPoint: math.Round(reorderPoint),
		OrderQty:     math.Round(f.DailyDemand * 14),
		SafetyStock:  math.Round(safetyStock),
		LeadTimeDays: e.cfg.ReorderLeadTimeDays,
	}
}
