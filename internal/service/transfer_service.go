package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/cache"
	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

const defaultTransferListLimit = 100

// TransferService derives rebalancing recommendations and manages the
// committed transfer records created from them. Recommendations are advisory
// and recomputed per request; only an explicit draft touches the database.
type TransferService struct {
	engine     *analytics.Engine
	catalog    repository.CatalogRepository
	timeseries repository.TimeseriesRepository
	transfers  repository.TransferRepository
	cache      cache.TransferSummaryCache
	overview   cache.OverviewCache
}

func NewTransferService(
	engine *analytics.Engine,
	catalog repository.CatalogRepository,
	timeseries repository.TimeseriesRepository,
	transfers repository.TransferRepository,
	cacheImpl cache.TransferSummaryCache,
	overview cache.OverviewCache,
) *TransferService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopTransferSummaryCache()
	}
	if overview == nil {
		overview = cache.NewNoopOverviewCache()
	}
	return &TransferService{
		engine:     engine,
		catalog:    catalog,
		timeseries: timeseries,
		transfers:  transfers,
		cache:      cacheImpl,
		overview:   overview,
	}
}

// GetRecommendations computes the rebalancing plan across the whole network,
// one SKU at a time. minUrgency raises the engine's floor for this request
// only; limit truncates after ranking.
func (s *TransferService) GetRecommendations(ctx context.Context, minUrgency float64, limit int) (*domain.TransferRecommendationsResponse, error) {
	recs, err := s.computeRecommendations(ctx)
	if err != nil {
		return nil, err
	}

	if minUrgency > 0 {
		kept := recs[:0]
		for _, r := range recs {
			if r.UrgencyScore >= minUrgency {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	grouped := make(map[string][]domain.TransferRecommendation)
	for _, r := range recs {
		grouped[r.ToStoreName] = append(grouped[r.ToStoreName], r)
	}

	summary := s.engine.Summarize(recs)
	if err := s.cache.SetSummary(ctx, &summary); err != nil {
		log.Warn().Err(err).Msg("transfers: cache set summary failed")
	}

	return &domain.TransferRecommendationsResponse{
		Recommendations:   recs,
		GroupedByReceiver: grouped,
		Total:             len(recs),
		Summary:           summary,
	}, nil
}

// GetSummary returns the cached rollup when fresh, recomputing otherwise.
func (s *TransferService) GetSummary(ctx context.Context) (*domain.TransferSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("transfers: cache get summary failed")
	}

	recs, err := s.computeRecommendations(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.engine.Summarize(recs)
	if err := s.cache.SetSummary(ctx, &summary); err != nil {
		log.Warn().Err(err).Msg("transfers: cache set summary failed")
	}

	return &summary, nil
}

func (s *TransferService) computeRecommendations(ctx context.Context) ([]domain.TransferRecommendation, error) {
	positions, err := s.timeseries.GetCurrentPositions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load current positions: %w", err)
	}

	stores, err := s.catalog.GetStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	storesByID := make(map[int64]domain.Store, len(stores))
	for _, st := range stores {
		storesByID[st.ID] = st
	}

	distances, err := s.catalog.GetStoreDistances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store distances: %w", err)
	}
	matrix := analytics.NewDistanceMatrix(distances)

	bySKU := make(map[int64][]domain.CurrentPosition)
	for _, pos := range positions {
		bySKU[pos.SKUID] = append(bySKU[pos.SKUID], pos)
	}

	cfg := s.engine.Config()
	now := time.Now()

	var (
		mu   sync.Mutex
		recs []domain.TransferRecommendation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxParallelComputations)

	for skuID, skuPositions := range bySKU {
		if len(skuPositions) < 2 {
			continue // nothing to balance against
		}
		g.Go(func() error {
			coverage := make([]analytics.StoreCoverage, 0, len(skuPositions))
			for _, pos := range skuPositions {
				history, err := s.timeseries.GetSalesHistory(gctx, pos.StoreID, pos.SKUID, cfg.ForecastWindowDays)
				if err != nil {
					return fmt.Errorf("sales history for store %d sku %d: %w", pos.StoreID, pos.SKUID, err)
				}

				var baseline float64
				if len(history) < cfg.MinObservations {
					since := now.AddDate(0, 0, -cfg.ForecastWindowDays)
					baseline, err = s.timeseries.GetCategoryBaseline(gctx, pos.StoreID, pos.Category, since)
					if err != nil {
						return err
					}
				}

				forecast := s.engine.Forecast(history, baseline)
				coverage = append(coverage, analytics.StoreCoverage{
					Store:       storesByID[pos.StoreID],
					SKUID:       skuID,
					SKUName:     pos.SKUName,
					OnHand:      pos.OnHand,
					DailyDemand: forecast.DailyDemand,
				})
			}

			skuRecs := s.engine.RecommendTransfers(coverage, matrix)
			if len(skuRecs) > 0 {
				mu.Lock()
				recs = append(recs, skuRecs...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic output across the whole network: urgency first, then
	// receiver and SKU.
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].UrgencyScore != recs[j].UrgencyScore {
			return recs[i].UrgencyScore > recs[j].UrgencyScore
		}
		if recs[i].ToStoreID != recs[j].ToStoreID {
			return recs[i].ToStoreID < recs[j].ToStoreID
		}
		return recs[i].SKUID < recs[j].SKUID
	})

	return recs, nil
}

// CreateDraft commits one recommendation as a draft transfer. Re-submitting
// the same draft is a no-op; the bool reports whether a row was created.
func (s *TransferService) CreateDraft(ctx context.Context, t domain.Transfer) (*domain.Transfer, bool, error) {
	if t.FromStoreID == t.ToStoreID {
		return nil, false, fmt.Errorf("%w: transfer must involve two different stores", domain.ErrInvalidRange)
	}
	if t.Qty <= 0 {
		return nil, false, fmt.Errorf("%w: transfer qty must be positive", domain.ErrInvalidRange)
	}

	for _, storeID := range []int64{t.FromStoreID, t.ToStoreID} {
		if _, err := s.catalog.GetStore(ctx, storeID); err != nil {
			return nil, false, err
		}
	}
	if _, err := s.catalog.GetSKU(ctx, t.SKUID); err != nil {
		return nil, false, err
	}

	if t.RequestedFor.IsZero() {
		t.RequestedFor = time.Now().Truncate(24 * time.Hour)
	}

	transfer, created, err := s.transfers.CreateDraft(ctx, t)
	if err != nil {
		return nil, false, err
	}

	if created {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("transfers: cache invalidate failed")
		}
	}

	return transfer, created, nil
}

// UpdateStatus moves a transfer through its lifecycle.
func (s *TransferService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Transfer, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidTransferStatus(status) {
		return nil, fmt.Errorf("%w: unknown transfer status %q", domain.ErrInvalidRange, status)
	}

	transfer, err := s.transfers.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("transfers: cache invalidate failed")
	}
	// A received transfer moves stock between stores; cached overview
	// listings no longer reflect either side.
	if err := s.overview.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("transfers: overview cache invalidate failed")
	}

	return transfer, nil
}

// ListTransfers lists committed transfers, optionally filtered by store and
// status.
func (s *TransferService) ListTransfers(ctx context.Context, storeID int64, status string, limit int) ([]domain.Transfer, error) {
	if status != "" && !domain.ValidTransferStatus(status) {
		return nil, fmt.Errorf("%w: unknown transfer status %q", domain.ErrInvalidRange, status)
	}
	if limit <= 0 {
		limit = defaultTransferListLimit
	}

	return s.transfers.ListTransfers(ctx, storeID, strings.ToLower(status), limit)
}
