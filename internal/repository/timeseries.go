// internal/repository/timeseries.go
package repository

import (
	"context"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

// TimeseriesRepository serves the historical data the analytics engine
// consumes. All reads return rows ordered oldest first so the engine's decay
// weighting can be applied directly.
type TimeseriesRepository interface {
	// GetSalesHistory returns up to days of daily sales for one store/SKU.
	GetSalesHistory(ctx context.Context, storeID, skuID int64, days int) ([]domain.SalesRecord, error)

	// GetHourlySales returns the hourly sales rows for the last weeks.
	// Hourly data is sparse; an empty result is normal, not an error.
	GetHourlySales(ctx context.Context, storeID, skuID int64, weeks int) ([]domain.HourlySales, error)

	// GetSnapshots returns the daily on-hand snapshots for the last days.
	GetSnapshots(ctx context.Context, storeID, skuID int64, days int) ([]domain.InventorySnapshot, error)

	// GetLatestOnHand returns the most recent snapshot for one store/SKU,
	// or domain.ErrNotFound when the pair has never been snapshotted.
	GetLatestOnHand(ctx context.Context, storeID, skuID int64) (*domain.InventorySnapshot, error)

	// GetCurrentPositions returns the latest snapshot per SKU joined with
	// the catalog, for one store or all stores when storeID is zero.
	GetCurrentPositions(ctx context.Context, storeID int64) ([]domain.CurrentPosition, error)

	// GetMovements aggregates recorded receipts, sales and transfers per
	// day over the last days, for snapshot reconciliation.
	GetMovements(ctx context.Context, storeID, skuID int64, days int) ([]domain.DayMovements, error)

	// GetHistory returns day-aligned on-hand and sales rows for charts.
	GetHistory(ctx context.Context, storeID, skuID int64, days int) ([]domain.HistoryPoint, error)

	// GetLastCycleCount returns the most recent physical count, or
	// domain.ErrNotFound when the pair was never counted.
	GetLastCycleCount(ctx context.Context, storeID, skuID int64) (*domain.CycleCount, error)

	// RecordCycleCount stores a physical count and corrects the same-day
	// snapshot to the counted quantity in one transaction.
	RecordCycleCount(ctx context.Context, count domain.CycleCount) error

	// GetCategoryBaseline returns the mean daily demand across all SKUs of
	// a category at one store, the fallback for thin per-SKU history.
	GetCategoryBaseline(ctx context.Context, storeID int64, category string, since time.Time) (float64, error)
}
