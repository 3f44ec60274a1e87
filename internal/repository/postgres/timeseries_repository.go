// internal/repository/postgres/timeseries_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

type timeseriesRepository struct {
	db *DB
}

func NewTimeseriesRepository(db *DB) *timeseriesRepository {
	return &timeseriesRepository{db: db}
}

func (r *timeseriesRepository) GetSalesHistory(ctx context.Context, storeID, skuID int64, days int) ([]domain.SalesRecord, error) {
	query := `
		SELECT store_id, sku_id, ts_date, qty_sold
		FROM sales_daily
		WHERE store_id = $1 AND sku_id = $2
		  AND ts_date >= CURRENT_DATE - $3::int
		ORDER BY ts_date
	`

	var sales []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &sales, query, storeID, skuID, days); err != nil {
		return nil, fmt.Errorf("failed to get sales history: %w", err)
	}

	return sales, nil
}

func (r *timeseriesRepository) GetHourlySales(ctx context.Context, storeID, skuID int64, weeks int) ([]domain.HourlySales, error) {
	query := `
		SELECT store_id, sku_id, ts_datetime, hour_of_day, day_of_week, qty_sold
		FROM sales_hourly
		WHERE store_id = $1 AND sku_id = $2
		  AND ts_datetime >= CURRENT_DATE - ($3::int * 7)
		ORDER BY ts_datetime
	`

	var sales []domain.HourlySales
	if err := r.db.SelectContext(ctx, &sales, query, storeID, skuID, weeks); err != nil {
		return nil, fmt.Errorf("failed to get hourly sales: %w", err)
	}

	return sales, nil
}

func (r *timeseriesRepository) GetSnapshots(ctx context.Context, storeID, skuID int64, days int) ([]domain.InventorySnapshot, error) {
	query := `
		SELECT store_id, sku_id, ts_date, on_hand
		FROM inventory_snapshots
		WHERE store_id = $1 AND sku_id = $2
		  AND ts_date >= CURRENT_DATE - $3::int
		ORDER BY ts_date
	`

	var snapshots []domain.InventorySnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, storeID, skuID, days); err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	return snapshots, nil
}

func (r *timeseriesRepository) GetLatestOnHand(ctx context.Context, storeID, skuID int64) (*domain.InventorySnapshot, error) {
	query := `
		SELECT store_id, sku_id, ts_date, on_hand
		FROM inventory_snapshots
		WHERE store_id = $1 AND sku_id = $2
		ORDER BY ts_date DESC
		LIMIT 1
	`

	var snapshot domain.InventorySnapshot
	if err := r.db.GetContext(ctx, &snapshot, query, storeID, skuID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest on-hand: %w", err)
	}

	return &snapshot, nil
}

func (r *timeseriesRepository) GetCurrentPositions(ctx context.Context, storeID int64) ([]domain.CurrentPosition, error) {
	query := `
		SELECT DISTINCT ON (i.store_id, i.sku_id)
			i.store_id,
			st.name AS store_name,
			i.sku_id,
			sk.name AS sku_name,
			sk.category,
			sk.is_perishable,
			i.on_hand,
			i.ts_date,
			cc.last_counted
		FROM inventory_snapshots i
		JOIN stores st ON st.id = i.store_id
		JOIN skus sk ON sk.id = i.sku_id
		LEFT JOIN LATERAL (
			SELECT MAX(ts_date) AS last_counted
			FROM cycle_counts c
			WHERE c.store_id = i.store_id AND c.sku_id = i.sku_id
		) cc ON true
		WHERE ($1 = 0 OR i.store_id = $1)
		ORDER BY i.store_id, i.sku_id, i.ts_date DESC
	`

	var positions []domain.CurrentPosition
	if err := r.db.SelectContext(ctx, &positions, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to get current positions: %w", err)
	}

	return positions, nil
}

func (r *timeseriesRepository) GetMovements(ctx context.Context, storeID, skuID int64, days int) ([]domain.DayMovements, error) {
	// One row per day with every recorded movement type folded in. Transfers
	// count on their requested day once received.
	query := `
		WITH days AS (
			SELECT generate_series(
				CURRENT_DATE - $3::int, CURRENT_DATE, interval '1 day'
			)::date AS ts_date
		)
		SELECT
			d.ts_date,
			COALESCE(rc.qty, 0)  AS receipts,
			COALESCE(sl.qty, 0)  AS sales,
			COALESCE(tin.qty, 0) AS transfers_in,
			COALESCE(tout.qty, 0) AS transfers_out
		FROM days d
		LEFT JOIN (
			SELECT ts_date, SUM(qty_received) AS qty
			FROM receipts_daily
			WHERE store_id = $1 AND sku_id = $2
			GROUP BY ts_date
		) rc ON rc.ts_date = d.ts_date
		LEFT JOIN (
			SELECT ts_date, SUM(qty_sold) AS qty
			FROM sales_daily
			WHERE store_id = $1 AND sku_id = $2
			GROUP BY ts_date
		) sl ON sl.ts_date = d.ts_date
		LEFT JOIN (
			SELECT requested_for AS ts_date, SUM(qty) AS qty
			FROM transfers
			WHERE to_store_id = $1 AND sku_id = $2 AND status = 'received'
			GROUP BY requested_for
		) tin ON tin.ts_date = d.ts_date
		LEFT JOIN (
			SELECT requested_for AS ts_date, SUM(qty) AS qty
			FROM transfers
			WHERE from_store_id = $1 AND sku_id = $2 AND status = 'received'
			GROUP BY requested_for
		) tout ON tout.ts_date = d.ts_date
		ORDER BY d.ts_date
	`

	var movements []domain.DayMovements
	if err := r.db.SelectContext(ctx, &movements, query, storeID, skuID, days); err != nil {
		return nil, fmt.Errorf("failed to get movements: %w", err)
	}

	return movements, nil
}

func (r *timeseriesRepository) GetHistory(ctx context.Context, storeID, skuID int64, days int) ([]domain.HistoryPoint, error) {
	query := `
		SELECT
			i.ts_date,
			i.on_hand,
			COALESCE(s.qty_sold, 0) AS sales
		FROM inventory_snapshots i
		LEFT JOIN sales_daily s
			ON s.store_id = i.store_id AND s.sku_id = i.sku_id AND s.ts_date = i.ts_date
		WHERE i.store_id = $1 AND i.sku_id = $2
		  AND i.ts_date >= CURRENT_DATE - $3::int
		ORDER BY i.ts_date
	`

	var history []domain.HistoryPoint
	if err := r.db.SelectContext(ctx, &history, query, storeID, skuID, days); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return history, nil
}

func (r *timeseriesRepository) GetLastCycleCount(ctx context.Context, storeID, skuID int64) (*domain.CycleCount, error) {
	query := `
		SELECT store_id, sku_id, ts_date, counted_qty
		FROM cycle_counts
		WHERE store_id = $1 AND sku_id = $2
		ORDER BY ts_date DESC
		LIMIT 1
	`

	var count domain.CycleCount
	if err := r.db.GetContext(ctx, &count, query, storeID, skuID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get last cycle count: %w", err)
	}

	return &count, nil
}

func (r *timeseriesRepository) RecordCycleCount(ctx context.Context, count domain.CycleCount) error {
	// The count and the snapshot correction land atomically so the on-hand
	// figure never disagrees with a recorded physical count.
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		insertCount := `
			INSERT INTO cycle_counts (store_id, sku_id, ts_date, counted_qty)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id, sku_id, ts_date)
			DO UPDATE SET counted_qty = EXCLUDED.counted_qty
		`
		if _, err := tx.ExecContext(ctx, insertCount,
			count.StoreID, count.SKUID, count.TsDate, count.CountedQty); err != nil {
			return fmt.Errorf("failed to insert cycle count: %w", err)
		}

		correctSnapshot := `
			INSERT INTO inventory_snapshots (store_id, sku_id, ts_date, on_hand)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id, sku_id, ts_date)
			DO UPDATE SET on_hand = EXCLUDED.on_hand
		`
		if _, err := tx.ExecContext(ctx, correctSnapshot,
			count.StoreID, count.SKUID, count.TsDate, count.CountedQty); err != nil {
			return fmt.Errorf("failed to correct snapshot: %w", err)
		}

		return nil
	})
}

func (r *timeseriesRepository) GetCategoryBaseline(ctx context.Context, storeID int64, category string, since time.Time) (float64, error) {
	// Mean daily demand per SKU across the category, used when one SKU's own
	// history is too thin to forecast from.
	query := `
		SELECT COALESCE(AVG(per_sku.daily), 0)
		FROM (
			SELECT s.sku_id, SUM(s.qty_sold)::float / GREATEST(COUNT(DISTINCT s.ts_date), 1) AS daily
			FROM sales_daily s
			JOIN skus sk ON sk.id = s.sku_id
			WHERE s.store_id = $1 AND sk.category = $2 AND s.ts_date >= $3
			GROUP BY s.sku_id
		) per_sku
	`

	var baseline float64
	if err := r.db.GetContext(ctx, &baseline, query, storeID, category, since); err != nil {
		return 0, fmt.Errorf("failed to get category baseline: %w", err)
	}

	return baseline, nil
}
