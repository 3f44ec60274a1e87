package analytics

import (
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// IsPeakHour reports whether hour falls inside a peak window.
func (e *Engine) IsPeakHour(hour int) bool {
	return e.PeakPeriod(hour) != ""
}

// PeakPeriod returns the peak window name for an hour, or "" outside peaks.
func (e *Engine) PeakPeriod(hour int) string {
	switch {
	case hour >= e.cfg.LunchStartHour && hour < e.cfg.LunchEndHour:
		return domain.PeakLunch
	case hour >= e.cfg.DinnerStartHour && hour < e.cfg.DinnerEndHour:
		return domain.PeakDinner
	default:
		return ""
	}
}

// IsOpenHour reports whether the store is operating during the given hour.
func (e *Engine) IsOpenHour(hour int) bool {
	return hour >= e.cfg.OpenHour && hour < e.cfg.CloseHour
}

// PeakSummary describes the current or next peak window relative to now.
func (e *Engine) PeakSummary(now time.Time) domain.PeakSummary {
	hour := now.Hour()

	var period string
	var peakHour, hoursUntil int

	switch {
	case hour < e.cfg.LunchStartHour:
		period = domain.PeakLunch
		peakHour = e.cfg.LunchStartHour
		hoursUntil = e.cfg.LunchStartHour - hour
	case hour < e.cfg.LunchEndHour:
		period = domain.PeakLunch
		peakHour = hour
	case hour < e.cfg.DinnerStartHour:
		period = domain.PeakDinner
		peakHour = e.cfg.DinnerStartHour
		hoursUntil = e.cfg.DinnerStartHour - hour
	case hour < e.cfg.DinnerEndHour:
		period = domain.PeakDinner
		peakHour = hour
	default:
		// Past dinner: next peak is tomorrow's lunch.
		period = domain.PeakLunch
		peakHour = e.cfg.LunchStartHour
		hoursUntil = 24 - hour + e.cfg.LunchStartHour
	}

	return domain.PeakSummary{
		CurrentTime:      now,
		CurrentHour:      hour,
		NextPeakPeriod:   period,
		NextPeakHour:     peakHour,
		HoursUntilPeak:   hoursUntil,
		MinutesUntilPeak: hoursUntil * 60,
		IsCurrentlyPeak:  hoursUntil == 0,
	}
}
