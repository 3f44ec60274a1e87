package analytics

import (
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// ConfidenceInput gathers the evidence used to grade one store/SKU's
// on-hand figure.
type ConfidenceInput struct {
	Anomalies   []domain.Anomaly
	Pattern     domain.AnomalyPattern
	LastCounted *time.Time
	Perishable  bool
	AsOf        time.Time
}

// ScoreConfidence grades how much the recorded on-hand figure can be
// trusted. The score starts at 100 and each independent signal deducts a
// capped amount, so the result is monotone: more anomalies, larger
// residuals, or a staler count never raise the score. Deductions are
// recorded in application order so the grade can be explained back.
func (e *Engine) ScoreConfidence(in ConfidenceInput) domain.ConfidenceReport {
	score := 100.0
	var deductions []string

	if n := len(in.Anomalies); n > 0 {
		d := min(float64(n)*e.cfg.AnomalyEventPenalty, e.cfg.AnomalyEventCap)
		score -= d
		deductions = append(deductions,
			fmt.Sprintf("-%.0f: %d unexplained inventory changes in last %d days", d, n, e.cfg.AnomalyLookbackDays))
	}

	var totalResidual float64
	for _, a := range in.Anomalies {
		if a.Residual < 0 {
			totalResidual += -a.Residual
		} else {
			totalResidual += a.Residual
		}
	}
	if totalResidual > 0 {
		d := min(totalResidual*e.cfg.MagnitudePenaltyRate, e.cfg.MagnitudeCap)
		score -= d
		deductions = append(deductions,
			fmt.Sprintf("-%.1f: %.0f total units unaccounted for", d, totalResidual))
	}

	var daysSinceCount *int
	if in.LastCounted == nil {
		score -= e.cfg.NeverCountedPenalty
		deductions = append(deductions,
			fmt.Sprintf("-%.0f: never physically counted", e.cfg.NeverCountedPenalty))
	} else {
		days := int(dateOnly(in.AsOf).Sub(dateOnly(*in.LastCounted)).Hours() / 24)
		if days < 0 {
			days = 0
		}
		daysSinceCount = &days
		// Recent counts are trusted; staleness only accrues past the grace
		// window.
		if days > e.cfg.StalenessGraceDays {
			d := min(float64(days-e.cfg.StalenessGraceDays)*e.cfg.StalenessPenaltyRate, e.cfg.StalenessCap)
			score -= d
			deductions = append(deductions,
				fmt.Sprintf("-%.1f: last counted %d days ago", d, days))
		}
	}

	// A fresh physical count neutralizes spoilage uncertainty.
	recentlyCounted := daysSinceCount != nil && *daysSinceCount <= e.cfg.PerishableRecentDays
	if in.Perishable && !recentlyCounted {
		score -= e.cfg.PerishablePenalty
		deductions = append(deductions,
			fmt.Sprintf("-%.0f: perishable item, higher spoilage uncertainty", e.cfg.PerishablePenalty))
	}

	if in.Pattern.HasPattern {
		score -= e.cfg.PatternPenalty
		deductions = append(deductions,
			fmt.Sprintf("-%.0f: systematic loss pattern detected", e.cfg.PatternPenalty))
	}

	if score < 0 {
		score = 0
	}

	return domain.ConfidenceReport{
		Score:          round1(score),
		Grade:          domain.GradeForScore(score),
		Deductions:     deductions,
		AnomalyCount:   len(in.Anomalies),
		DaysSinceCount: daysSinceCount,
		HasPattern:     in.Pattern.HasPattern,
	}
}
