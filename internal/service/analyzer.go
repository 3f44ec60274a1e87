package service

import (
	"context"
	"time"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

// itemAnalysis is the full derived picture for one store/SKU, shared by the
// overview, detail and peak-hour surfaces.
type itemAnalysis struct {
	Position     domain.CurrentPosition
	Forecast     domain.DemandForecast
	Anomalies    []domain.Anomaly
	Pattern      domain.AnomalyPattern
	Confidence   domain.ConfidenceReport
	DaysOfCover  float64
	StockoutDate *time.Time
}

// analyzer pulls the time series for a store/SKU and runs the engine over it.
type analyzer struct {
	engine     *analytics.Engine
	timeseries repository.TimeseriesRepository
}

func (a *analyzer) analyze(ctx context.Context, pos domain.CurrentPosition, now time.Time) (*itemAnalysis, error) {
	cfg := a.engine.Config()

	history, err := a.timeseries.GetSalesHistory(ctx, pos.StoreID, pos.SKUID, cfg.ForecastWindowDays)
	if err != nil {
		return nil, err
	}

	// Thin history falls back to the category-level baseline and gets
	// tagged estimated by the engine.
	var baseline float64
	if len(history) < cfg.MinObservations {
		since := now.AddDate(0, 0, -cfg.ForecastWindowDays)
		baseline, err = a.timeseries.GetCategoryBaseline(ctx, pos.StoreID, pos.Category, since)
		if err != nil {
			return nil, err
		}
	}

	forecast := a.engine.Forecast(history, baseline)

	snapshots, err := a.timeseries.GetSnapshots(ctx, pos.StoreID, pos.SKUID, cfg.AnomalyLookbackDays)
	if err != nil {
		return nil, err
	}
	movements, err := a.timeseries.GetMovements(ctx, pos.StoreID, pos.SKUID, cfg.AnomalyLookbackDays)
	if err != nil {
		return nil, err
	}

	anomalies := a.engine.DetectAnomalies(pos.StoreID, pos.SKUID, snapshots, movements, forecast.DemandStd)
	pattern := a.engine.FindPattern(anomalies)

	confidence := a.engine.ScoreConfidence(analytics.ConfidenceInput{
		Anomalies:   anomalies,
		Pattern:     pattern,
		LastCounted: pos.LastCounted,
		Perishable:  pos.IsPerishable,
		AsOf:        now,
	})

	return &itemAnalysis{
		Position:     pos,
		Forecast:     forecast,
		Anomalies:    anomalies,
		Pattern:      pattern,
		Confidence:   confidence,
		DaysOfCover:  a.engine.DaysOfCover(pos.OnHand, forecast.DailyDemand),
		StockoutDate: a.engine.StockoutDate(pos.OnHand, forecast.DailyDemand, now),
	}, nil
}

// riskLevel buckets days of cover against the restocking thresholds.
func riskLevel(cover, targetCoverDays float64) string {
	switch {
	case cover < 2:
		return domain.RiskCritical
	case cover < 5:
		return domain.RiskHigh
	case cover < targetCoverDays:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func suggestedAction(risk string, estimated bool) string {
	if estimated {
		return "verify_stock"
	}
	switch risk {
	case domain.RiskCritical:
		return "restock_now"
	case domain.RiskHigh:
		return "restock_soon"
	case domain.RiskMedium:
		return "monitor"
	default:
		return "none"
	}
}
