package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// DetectAnomalies reconciles day-over-day snapshot deltas against the
// recorded movements and flags the days whose residual cannot be explained.
// Snapshots must be ordered oldest first; movements are keyed by day. The
// scan is read-only over history and deterministic: identical input yields
// identical output.
func (e *Engine) DetectAnomalies(storeID, skuID int64, snapshots []domain.InventorySnapshot, movements []domain.DayMovements, demandStd float64) []domain.Anomaly {
	if len(snapshots) < 2 {
		return nil
	}

	byDay := make(map[time.Time]domain.DayMovements, len(movements))
	for _, m := range movements {
		byDay[dateOnly(m.TsDate)] = m
	}

	// Severity is measured in units of demand variability; quiet items fall
	// back to the absolute floor so a 1-unit wobble never flags.
	sigma := demandStd
	if sigma < 1 {
		sigma = e.cfg.MinResidualUnits
	}
	threshold := math.Max(e.cfg.MinResidualUnits, sigma)

	var anomalies []domain.Anomaly
	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]
		if dateOnly(cur.TsDate).Sub(dateOnly(prev.TsDate)) != 24*time.Hour {
			continue // gap in history, no delta to reconcile
		}

		mv := byDay[dateOnly(cur.TsDate)]
		actual := cur.OnHand - prev.OnHand
		expected := mv.Receipts - mv.Sales + mv.TransfersIn - mv.TransfersOut
		residual := float64(actual - expected)

		if math.Abs(residual) < threshold {
			continue
		}

		anomalies = append(anomalies, domain.Anomaly{
			StoreID:       storeID,
			SKUID:         skuID,
			TsDate:        dateOnly(cur.TsDate),
			Residual:      round2(residual),
			Severity:      e.classifySeverity(residual, sigma),
			Explanation:   explainResidual(residual, mv, expected, actual),
			ExpectedDelta: expected,
			ActualDelta:   actual,
		})
	}

	return anomalies
}

func (e *Engine) classifySeverity(residual, sigma float64) string {
	ratio := math.Abs(residual) / sigma
	switch {
	case ratio >= 3:
		return domain.SeverityCritical
	case ratio >= 2:
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

// explainResidual picks the likely cause category from the residual sign and
// the movements recorded that day. The choice is rule-based, never guessed.
func explainResidual(residual float64, mv domain.DayMovements, expected, actual int) string {
	missing := math.Abs(residual)

	if residual > 0 {
		return fmt.Sprintf(
			"Inventory rose %.0f units more than recorded movements explain. Possible unrecorded delivery or double-counted receipt.",
			missing)
	}

	switch {
	case mv.Receipts > 0:
		return fmt.Sprintf(
			"Expected +%d units from shipment, but inventory changed by %d units. Possible receiving error, damage, or theft during receiving. Missing %.0f units.",
			mv.Receipts, actual, missing)
	case mv.TransfersIn > 0 || mv.TransfersOut > 0:
		return fmt.Sprintf(
			"Expected change of %+d units from transfers, but actual change was %+d. Transfer discrepancy of %.0f units.",
			expected, actual, missing)
	case mv.Sales > 0:
		return fmt.Sprintf(
			"Expected -%d units from sales, but inventory dropped by %d units. Possible shrink, unrecorded sales, or theft. Missing %.0f units.",
			mv.Sales, -actual, missing)
	default:
		return fmt.Sprintf(
			"Inventory dropped by %.0f units with no recorded transactions. Likely theft, damage, or system error.",
			missing)
	}
}

// FindPattern scans a flagged set for systematic behavior: a dominant share
// of same-direction residuals, and a weekday cadence when one day of the
// week keeps recurring.
func (e *Engine) FindPattern(anomalies []domain.Anomaly) domain.AnomalyPattern {
	if len(anomalies) == 0 {
		return domain.AnomalyPattern{}
	}

	var negativeCount int
	var totalLoss float64
	byWeekday := make(map[time.Weekday]int)
	for _, a := range anomalies {
		if a.Residual < 0 {
			negativeCount++
			totalLoss += -a.Residual
			byWeekday[a.TsDate.Weekday()]++
		}
	}

	negativeRatio := float64(negativeCount) / float64(len(anomalies))
	hasPattern := negativeCount >= e.cfg.PatternMinEvents &&
		negativeRatio >= e.cfg.PatternNegativeRatio

	pattern := domain.AnomalyPattern{
		HasPattern:    hasPattern,
		Frequency:     len(anomalies),
		TotalLoss:     round2(totalLoss),
		NegativeRatio: round2(negativeRatio),
	}
	if hasPattern {
		pattern.PatternType = "systematic_shrink"
		pattern.CadenceDay = dominantWeekday(byWeekday, e.cfg.PatternMinEvents)
	}

	return pattern
}

// dominantWeekday returns the weekday carrying at least minEvents recurring
// losses, preferring the highest count with day order as the tie-break.
func dominantWeekday(byWeekday map[time.Weekday]int, minEvents int) string {
	days := make([]time.Weekday, 0, len(byWeekday))
	for d := range byWeekday {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		if byWeekday[days[i]] != byWeekday[days[j]] {
			return byWeekday[days[i]] > byWeekday[days[j]]
		}
		return days[i] < days[j]
	})

	if len(days) > 0 && byWeekday[days[0]] >= minEvents {
		return days[0].String()
	}
	return ""
}
