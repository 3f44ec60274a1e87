package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// PrepItem is one SKU's input to the prep schedule: its current stock, the
// intraday demand curve and the stockout projection derived from it.
type PrepItem struct {
	SKUID      int64
	SKUName    string
	Category   string
	OnHand     int
	Curve      domain.HourlyCurve
	Prediction domain.StockoutPrediction
}

// PrepSchedule turns today's stockout projections into an ordered task list
// for the kitchen. Each at-risk SKU gets a prep-by time one lead interval
// ahead of its projected stockout and a quantity sized to carry it through
// the exposed window plus a waste buffer. Tasks whose prep-by time has
// already passed are kept and flagged overdue rather than dropped, since a
// late start still beats none. Sorted by prep-by time, then SKU id.
func (e *Engine) PrepSchedule(items []PrepItem, now time.Time) []domain.PrepTask {
	var tasks []domain.PrepTask

	for _, it := range items {
		p := it.Prediction
		if !p.WillStockout || p.StockoutTime == nil {
			continue
		}

		prepBy := p.StockoutTime.Add(-time.Duration(e.cfg.PrepLeadTimeHours) * time.Hour)
		windowEnd := e.prepWindowEnd(p)

		var windowDemand float64
		for _, slot := range it.Curve.Slots {
			if slot.Hour >= p.StockoutHour && slot.Hour < windowEnd {
				windowDemand += slot.PredictedDemand
			}
		}
		qty := int(math.Ceil(windowDemand * (1 + e.cfg.PrepBufferPct)))
		if qty < 1 {
			qty = 1
		}

		overdue := prepBy.Before(now)
		tasks = append(tasks, domain.PrepTask{
			SKUID:          it.SKUID,
			SKUName:        it.SKUName,
			Category:       it.Category,
			PrepBy:         prepBy,
			QtyToPrep:      qty,
			Priority:       e.prepPriority(p, overdue),
			Reason:         prepReason(p),
			Overdue:        overdue,
			CurrentOnHand:  it.OnHand,
			StockoutTime:   *p.StockoutTime,
			IsPeakStockout: p.IsDuringPeak,
		})
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].PrepBy.Equal(tasks[j].PrepBy) {
			return tasks[i].PrepBy.Before(tasks[j].PrepBy)
		}
		return tasks[i].SKUID < tasks[j].SKUID
	})

	return tasks
}

// prepWindowEnd is the last hour the prep batch must cover: the end of the
// peak window for a peak stockout, otherwise a couple of hours past the
// projected stockout, clamped to closing time.
func (e *Engine) prepWindowEnd(p domain.StockoutPrediction) int {
	end := p.StockoutHour + 2
	switch p.PeakPeriod {
	case domain.PeakLunch:
		end = e.cfg.LunchEndHour
	case domain.PeakDinner:
		end = e.cfg.DinnerEndHour
	}
	if end > e.cfg.CloseHour {
		end = e.cfg.CloseHour
	}
	return end
}

func (e *Engine) prepPriority(p domain.StockoutPrediction, overdue bool) string {
	switch {
	case p.IsDuringPeak && (overdue || p.HoursUntil <= e.cfg.PrepLeadTimeHours):
		return domain.PriorityCritical
	case p.IsDuringPeak:
		return domain.PriorityHigh
	case overdue || p.HoursUntil <= e.cfg.PrepLeadTimeHours+2:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func prepReason(p domain.StockoutPrediction) string {
	if p.IsDuringPeak {
		return fmt.Sprintf("projected to run out during the %s rush around %02d:30", p.PeakPeriod, p.StockoutHour)
	}
	return fmt.Sprintf("projected to run out around %02d:30", p.StockoutHour)
}
