package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/cache"
	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

// SKUService serves the drill-down surfaces for a single store/SKU pair.
type SKUService struct {
	engine     *analytics.Engine
	catalog    repository.CatalogRepository
	timeseries repository.TimeseriesRepository
	overview   cache.OverviewCache
	analyzer   analyzer
}

func NewSKUService(
	engine *analytics.Engine,
	catalog repository.CatalogRepository,
	timeseries repository.TimeseriesRepository,
	overview cache.OverviewCache,
) *SKUService {
	if overview == nil {
		overview = cache.NewNoopOverviewCache()
	}
	return &SKUService{
		engine:     engine,
		catalog:    catalog,
		timeseries: timeseries,
		overview:   overview,
		analyzer:   analyzer{engine: engine, timeseries: timeseries},
	}
}

// resolve loads the store/SKU pair and its latest position, mapping unknown
// ids to domain.ErrNotFound for the handler layer.
func (s *SKUService) resolve(ctx context.Context, storeID, skuID int64) (*domain.Store, *domain.SKU, domain.CurrentPosition, error) {
	store, err := s.catalog.GetStore(ctx, storeID)
	if err != nil {
		return nil, nil, domain.CurrentPosition{}, err
	}
	sku, err := s.catalog.GetSKU(ctx, skuID)
	if err != nil {
		return nil, nil, domain.CurrentPosition{}, err
	}

	pos := domain.CurrentPosition{
		StoreID:      store.ID,
		StoreName:    store.Name,
		SKUID:        sku.ID,
		SKUName:      sku.Name,
		Category:     sku.Category,
		IsPerishable: sku.IsPerishable,
	}

	// A pair with no snapshots yet is still servable; on-hand stays zero.
	snapshot, err := s.timeseries.GetLatestOnHand(ctx, storeID, skuID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.CurrentPosition{}, err
	}
	if snapshot != nil {
		pos.OnHand = snapshot.OnHand
		pos.TsDate = snapshot.TsDate
	}

	if count, err := s.timeseries.GetLastCycleCount(ctx, storeID, skuID); err == nil {
		pos.LastCounted = &count.TsDate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.CurrentPosition{}, err
	}

	return store, sku, pos, nil
}

// GetDetail assembles the full analytical picture for one store/SKU.
func (s *SKUService) GetDetail(ctx context.Context, storeID, skuID int64) (*domain.SKUDetail, error) {
	store, sku, pos, err := s.resolve(ctx, storeID, skuID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	analysis, err := s.analyzer.analyze(ctx, pos, now)
	if err != nil {
		return nil, fmt.Errorf("analyze store %d sku %d: %w", storeID, skuID, err)
	}

	forecast := analysis.Forecast
	forecast.Next7Days = s.engine.NextDays(forecast, now, 7)

	history, err := s.timeseries.GetHistory(ctx, storeID, skuID, s.engine.Config().ForecastWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	reorder := s.engine.Reorder(forecast)

	return &domain.SKUDetail{
		Store: *store,
		SKU:   *sku,
		CurrentState: domain.SKUCurrentState{
			OnHand:          pos.OnHand,
			DailyDemand:     forecast.DailyDemand,
			DaysOfCover:     analysis.DaysOfCover,
			StockoutDate:    analysis.StockoutDate,
			ConfidenceScore: analysis.Confidence.Score,
			ConfidenceGrade: analysis.Confidence.Grade,
		},
		Forecast:          forecast,
		History:           history,
		Anomalies:         analysis.Anomalies,
		AnomalyPatterns:   analysis.Pattern,
		ConfidenceDetails: analysis.Confidence,
		Reorder:           reorder,
		Actions:           s.adviseActions(analysis, reorder),
	}, nil
}

func (s *SKUService) adviseActions(a *itemAnalysis, reorder domain.ReorderAdvice) map[string]domain.ActionAdvice {
	cfg := s.engine.Config()
	actions := map[string]domain.ActionAdvice{
		"reorder":     {},
		"transfer_in": {},
		"cycle_count": {},
	}

	if float64(a.Position.OnHand) <= reorder.ReorderPoint {
		actions["reorder"] = domain.ActionAdvice{
			Recommended: true,
			Priority:    riskLevel(a.DaysOfCover, cfg.TargetCoverDays),
			Qty:         int(reorder.OrderQty),
			Reason:      fmt.Sprintf("on hand %d is at or below the reorder point of %.0f", a.Position.OnHand, reorder.ReorderPoint),
		}
	}

	// Reordering takes days; a transfer can land today when cover is about
	// to run out.
	if a.DaysOfCover < float64(cfg.ReorderLeadTimeDays) {
		actions["transfer_in"] = domain.ActionAdvice{
			Recommended: true,
			Priority:    domain.PriorityHigh,
			Reason:      fmt.Sprintf("%.1f days of cover is less than the %d day reorder lead time", a.DaysOfCover, cfg.ReorderLeadTimeDays),
		}
	}

	if a.Confidence.Score < 70 || a.Pattern.HasPattern {
		reason := "confidence in the recorded on-hand figure is low"
		if a.Pattern.HasPattern {
			reason = "a recurring loss pattern was detected"
		}
		actions["cycle_count"] = domain.ActionAdvice{
			Recommended: true,
			Priority:    domain.PriorityMedium,
			Reason:      reason,
		}
	}

	return actions
}

// GetHourlyForecast projects today's hour-by-hour demand and remaining
// inventory for one store/SKU.
func (s *SKUService) GetHourlyForecast(ctx context.Context, storeID, skuID int64) (*domain.SKUHourlyForecast, error) {
	store, sku, pos, err := s.resolve(ctx, storeID, skuID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	analysis, err := s.analyzer.analyze(ctx, pos, now)
	if err != nil {
		return nil, fmt.Errorf("analyze store %d sku %d: %w", storeID, skuID, err)
	}

	cfg := s.engine.Config()
	hourly, err := s.timeseries.GetHourlySales(ctx, storeID, skuID, cfg.HourlyLookbackWeeks)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly sales: %w", err)
	}

	curve := s.engine.HourlyCurve(hourly, analysis.Forecast.DailyDemand, now.Weekday())
	prediction := s.engine.PredictStockout(pos.OnHand, curve, now)

	// Annotate each remaining hour with the projected inventory runway.
	remaining := float64(pos.OnHand)
	slots := make([]domain.HourlyForecastSlot, 0, len(curve.Slots))
	for _, slot := range curve.Slots {
		if slot.Hour < now.Hour() {
			continue
		}
		remaining -= slot.PredictedDemand
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, domain.HourlyForecastSlot{
			HourlySlot:         slot,
			RemainingInventory: remaining,
			WillStockoutHour:   prediction.WillStockout && slot.Hour == prediction.StockoutHour,
		})
	}

	return &domain.SKUHourlyForecast{
		Store:          *store,
		SKU:            *sku,
		CurrentOnHand:  pos.OnHand,
		Curve:          curve,
		HourlyForecast: slots,
		Stockout:       prediction,
	}, nil
}

// RecordCycleCount stores a physical count and aligns the same-day snapshot
// with it.
func (s *SKUService) RecordCycleCount(ctx context.Context, count domain.CycleCount) error {
	if _, err := s.catalog.GetStore(ctx, count.StoreID); err != nil {
		return err
	}
	if _, err := s.catalog.GetSKU(ctx, count.SKUID); err != nil {
		return err
	}
	if count.CountedQty < 0 {
		return fmt.Errorf("%w: counted qty must not be negative", domain.ErrInvalidRange)
	}
	if count.TsDate.IsZero() {
		count.TsDate = time.Now().Truncate(24 * time.Hour)
	}

	if err := s.timeseries.RecordCycleCount(ctx, count); err != nil {
		return err
	}

	// The corrected snapshot changes on-hand and confidence, so cached
	// overview listings are stale from here on.
	if err := s.overview.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("cycle count: overview cache invalidate failed")
	}

	return nil
}
