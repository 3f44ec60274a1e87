package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

// PeakHourService builds the intraday operations view for one store: which
// SKUs run out during the rush windows and what to prep ahead of them.
type PeakHourService struct {
	engine     *analytics.Engine
	catalog    repository.CatalogRepository
	timeseries repository.TimeseriesRepository
	analyzer   analyzer
}

func NewPeakHourService(
	engine *analytics.Engine,
	catalog repository.CatalogRepository,
	timeseries repository.TimeseriesRepository,
) *PeakHourService {
	return &PeakHourService{
		engine:     engine,
		catalog:    catalog,
		timeseries: timeseries,
		analyzer:   analyzer{engine: engine, timeseries: timeseries},
	}
}

// GetDashboard assembles the peak-hours dashboard for a store.
func (s *PeakHourService) GetDashboard(ctx context.Context, storeID int64) (*domain.PeakHoursDashboard, error) {
	store, err := s.catalog.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items, err := s.projectStore(ctx, storeID, now)
	if err != nil {
		return nil, err
	}

	var atRisk []domain.AtRiskItem
	for _, it := range items {
		p := it.Prediction
		if !p.WillStockout || !p.IsDuringPeak || p.StockoutTime == nil {
			continue
		}
		atRisk = append(atRisk, domain.AtRiskItem{
			SKUID:        it.SKUID,
			SKUName:      it.SKUName,
			Category:     it.Category,
			OnHand:       it.OnHand,
			StockoutTime: *p.StockoutTime,
			HoursUntil:   p.HoursUntil,
			PeakPeriod:   p.PeakPeriod,
		})
	}
	sort.Slice(atRisk, func(i, j int) bool {
		if !atRisk[i].StockoutTime.Equal(atRisk[j].StockoutTime) {
			return atRisk[i].StockoutTime.Before(atRisk[j].StockoutTime)
		}
		return atRisk[i].SKUID < atRisk[j].SKUID
	})

	prep := s.engine.PrepSchedule(items, now)

	return &domain.PeakHoursDashboard{
		Store:          *store,
		Summary:        s.engine.PeakSummary(now),
		PrepSchedule:   prep,
		AtRiskItems:    atRisk,
		TotalAtRisk:    len(atRisk),
		TotalPrepTasks: len(prep),
	}, nil
}

// GetPrepSchedule returns just the ordered prep task list for a store.
// leadHours overrides the configured prep lead time when positive.
func (s *PeakHourService) GetPrepSchedule(ctx context.Context, storeID int64, leadHours int) ([]domain.PrepTask, error) {
	if _, err := s.catalog.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	now := time.Now()
	items, err := s.projectStore(ctx, storeID, now)
	if err != nil {
		return nil, err
	}

	engine := s.engine
	if leadHours > 0 {
		cfg := s.engine.Config()
		cfg.PrepLeadTimeHours = leadHours
		engine = analytics.NewEngine(cfg)
	}

	return engine.PrepSchedule(items, now), nil
}

// projectStore runs today's hourly stockout projection for every SKU the
// store stocks, bounded by the engine's parallelism limit.
func (s *PeakHourService) projectStore(ctx context.Context, storeID int64, now time.Time) ([]analytics.PrepItem, error) {
	positions, err := s.timeseries.GetCurrentPositions(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current positions: %w", err)
	}

	cfg := s.engine.Config()

	var (
		mu    sync.Mutex
		items []analytics.PrepItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxParallelComputations)

	for _, pos := range positions {
		g.Go(func() error {
			analysis, err := s.analyzer.analyze(gctx, pos, now)
			if err != nil {
				return fmt.Errorf("analyze store %d sku %d: %w", pos.StoreID, pos.SKUID, err)
			}

			hourly, err := s.timeseries.GetHourlySales(gctx, pos.StoreID, pos.SKUID, cfg.HourlyLookbackWeeks)
			if err != nil {
				return fmt.Errorf("hourly sales for store %d sku %d: %w", pos.StoreID, pos.SKUID, err)
			}

			curve := s.engine.HourlyCurve(hourly, analysis.Forecast.DailyDemand, now.Weekday())
			item := analytics.PrepItem{
				SKUID:      pos.SKUID,
				SKUName:    pos.SKUName,
				Category:   pos.Category,
				OnHand:     pos.OnHand,
				Curve:      curve,
				Prediction: s.engine.PredictStockout(pos.OnHand, curve, now),
			}

			mu.Lock()
			items = append(items, item)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}
