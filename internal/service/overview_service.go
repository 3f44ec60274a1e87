package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/cache"
	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

const defaultOverviewLimit = 50

// OverviewService computes the network-wide inventory listing. Everything it
// returns is derived per request; nothing is precomputed or stored.
type OverviewService struct {
	engine     *analytics.Engine
	timeseries repository.TimeseriesRepository
	transfers  *TransferService
	cache      cache.OverviewCache
	analyzer   analyzer
}

func NewOverviewService(
	engine *analytics.Engine,
	timeseries repository.TimeseriesRepository,
	transfers *TransferService,
	cacheImpl cache.OverviewCache,
) *OverviewService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopOverviewCache()
	}
	return &OverviewService{
		engine:     engine,
		timeseries: timeseries,
		transfers:  transfers,
		cache:      cacheImpl,
		analyzer:   analyzer{engine: engine, timeseries: timeseries},
	}
}

func (s *OverviewService) GetOverview(ctx context.Context, filter domain.OverviewFilter) (*domain.OverviewResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultOverviewLimit
	}

	if resp, ok, err := s.cache.GetOverview(ctx, filter); err == nil && ok {
		return resp, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("overview: cache get failed")
	}

	positions, err := s.timeseries.GetCurrentPositions(ctx, filter.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current positions: %w", err)
	}

	items, err := s.analyzeAll(ctx, positions, time.Now())
	if err != nil {
		return nil, err
	}

	alerts := s.countAlerts(ctx, items)

	items = applyOverviewFilter(items, filter)
	resp := &domain.OverviewResponse{
		Items:   items,
		Total:   len(items),
		Alerts:  alerts,
		Filters: filter,
	}

	if err := s.cache.SetOverview(ctx, filter, resp); err != nil {
		log.Warn().Err(err).Msg("overview: cache set failed")
	}

	return resp, nil
}

// analyzeAll fans the per-item analysis out over a bounded worker group. Each
// item is independent, so order is restored afterwards instead of serializing
// the computation.
func (s *OverviewService) analyzeAll(ctx context.Context, positions []domain.CurrentPosition, now time.Time) ([]domain.OverviewItem, error) {
	items := make([]domain.OverviewItem, len(positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.engine.Config().MaxParallelComputations)

	for i, pos := range positions {
		g.Go(func() error {
			analysis, err := s.analyzer.analyze(gctx, pos, now)
			if err != nil {
				return fmt.Errorf("analyze store %d sku %d: %w", pos.StoreID, pos.SKUID, err)
			}
			items[i] = overviewItem(analysis, s.engine.Config().TargetCoverDays)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		ri, rj := domain.RiskRank(items[i].RiskLevel), domain.RiskRank(items[j].RiskLevel)
		if ri != rj {
			return ri < rj
		}
		return items[i].DaysOfCover < items[j].DaysOfCover
	})

	return items, nil
}

func overviewItem(a *itemAnalysis, targetCoverDays float64) domain.OverviewItem {
	risk := riskLevel(a.DaysOfCover, targetCoverDays)
	return domain.OverviewItem{
		StoreID:         a.Position.StoreID,
		StoreName:       a.Position.StoreName,
		SKUID:           a.Position.SKUID,
		SKUName:         a.Position.SKUName,
		Category:        a.Position.Category,
		OnHand:          a.Position.OnHand,
		DailyDemand:     a.Forecast.DailyDemand,
		DaysOfCover:     a.DaysOfCover,
		StockoutDate:    a.StockoutDate,
		ConfidenceScore: a.Confidence.Score,
		ConfidenceGrade: a.Confidence.Grade,
		RiskLevel:       risk,
		SuggestedAction: suggestedAction(risk, a.Forecast.Estimated),
		Estimated:       a.Forecast.Estimated,
	}
}

// applyOverviewFilter keeps the matching items, then takes one page. The
// offset counts matches, not raw rows, so pages stay stable under filters.
func applyOverviewFilter(items []domain.OverviewItem, filter domain.OverviewFilter) []domain.OverviewItem {
	skip := filter.Offset
	filtered := make([]domain.OverviewItem, 0, len(items))
	for _, it := range items {
		if filter.RiskOnly && it.RiskLevel == domain.RiskLow {
			continue
		}
		if filter.MinConfidence > 0 && it.ConfidenceScore < float64(filter.MinConfidence) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		filtered = append(filtered, it)
		if len(filtered) == filter.Limit {
			break
		}
	}
	return filtered
}

func (s *OverviewService) countAlerts(ctx context.Context, items []domain.OverviewItem) domain.OverviewAlerts {
	var alerts domain.OverviewAlerts
	for _, it := range items {
		if it.RiskLevel == domain.RiskCritical {
			alerts.CriticalStockouts++
		}
		if it.ConfidenceScore < 60 {
			alerts.LowConfidence++
		}
	}

	if s.transfers != nil {
		summary, err := s.transfers.GetSummary(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("overview: transfer summary unavailable")
		} else {
			alerts.TransferOpportunities = summary.TotalOpportunities
		}
	}

	return alerts
}

// GetAlerts lists the critical stockouts across the network, worst first.
func (s *OverviewService) GetAlerts(ctx context.Context, limit int) (*domain.AlertsResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	positions, err := s.timeseries.GetCurrentPositions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load current positions: %w", err)
	}

	items, err := s.analyzeAll(ctx, positions, time.Now())
	if err != nil {
		return nil, err
	}

	var alerts []domain.StockoutAlert
	for _, it := range items {
		if it.RiskLevel != domain.RiskCritical {
			continue
		}
		alerts = append(alerts, domain.StockoutAlert{
			StoreName:   it.StoreName,
			SKUName:     it.SKUName,
			DaysOfCover: it.DaysOfCover,
			Message:     fmt.Sprintf("%s at %s has %.1f days of stock left", it.SKUName, it.StoreName, it.DaysOfCover),
		})
	}

	total := len(alerts)
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}

	return &domain.AlertsResponse{
		CriticalStockouts: alerts,
		TotalCritical:     total,
	}, nil
}
