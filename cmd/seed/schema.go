package main

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements run in order. Every statement is idempotent so the
// schema command can be re-run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		lat      DOUBLE PRECISION,
		lon      DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS skus (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		category      TEXT NOT NULL,
		cost          NUMERIC(10,2) NOT NULL DEFAULT 0,
		price         NUMERIC(10,2) NOT NULL DEFAULT 0,
		is_perishable BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS store_distances (
		from_store_id BIGINT NOT NULL REFERENCES stores(id),
		to_store_id   BIGINT NOT NULL REFERENCES stores(id),
		distance_km   DOUBLE PRECISION NOT NULL,
		transfer_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (from_store_id, to_store_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_snapshots (
		store_id BIGINT NOT NULL REFERENCES stores(id),
		sku_id   BIGINT NOT NULL REFERENCES skus(id),
		ts_date  DATE NOT NULL,
		on_hand  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (store_id, sku_id, ts_date)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_daily (
		store_id BIGINT NOT NULL REFERENCES stores(id),
		sku_id   BIGINT NOT NULL REFERENCES skus(id),
		ts_date  DATE NOT NULL,
		qty_sold INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (store_id, sku_id, ts_date)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_hourly (
		store_id    BIGINT NOT NULL REFERENCES stores(id),
		sku_id      BIGINT NOT NULL REFERENCES skus(id),
		ts_datetime TIMESTAMPTZ NOT NULL,
		hour_of_day INTEGER NOT NULL,
		day_of_week INTEGER NOT NULL,
		qty_sold    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (store_id, sku_id, ts_datetime)
	)`,
	`CREATE TABLE IF NOT EXISTS receipts_daily (
		store_id     BIGINT NOT NULL REFERENCES stores(id),
		sku_id       BIGINT NOT NULL REFERENCES skus(id),
		ts_date      DATE NOT NULL,
		qty_received INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (store_id, sku_id, ts_date)
	)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id            BIGSERIAL PRIMARY KEY,
		from_store_id BIGINT NOT NULL REFERENCES stores(id),
		to_store_id   BIGINT NOT NULL REFERENCES stores(id),
		sku_id        BIGINT NOT NULL REFERENCES skus(id),
		qty           INTEGER NOT NULL,
		status        TEXT NOT NULL DEFAULT 'draft',
		requested_for DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		received_at   TIMESTAMPTZ
	)`,
	// One open draft per lane and day; the API relies on this for
	// idempotent draft creation.
	`CREATE UNIQUE INDEX IF NOT EXISTS transfers_draft_lane_idx
		ON transfers (from_store_id, to_store_id, sku_id, requested_for)
		WHERE status = 'draft'`,
	`CREATE TABLE IF NOT EXISTS cycle_counts (
		store_id    BIGINT NOT NULL REFERENCES stores(id),
		sku_id      BIGINT NOT NULL REFERENCES skus(id),
		ts_date     DATE NOT NULL,
		counted_qty INTEGER NOT NULL,
		PRIMARY KEY (store_id, sku_id, ts_date)
	)`,
	`CREATE TABLE IF NOT EXISTS telemetry (
		id          BIGSERIAL PRIMARY KEY,
		store_id    BIGINT NOT NULL REFERENCES stores(id),
		sensor      TEXT NOT NULL,
		value       DOUBLE PRECISION NOT NULL,
		unit        TEXT NOT NULL DEFAULT '',
		ts_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS sales_daily_date_idx ON sales_daily (ts_date)`,
	`CREATE INDEX IF NOT EXISTS sales_hourly_date_idx ON sales_hourly (ts_datetime)`,
	`CREATE INDEX IF NOT EXISTS transfers_status_idx ON transfers (status)`,
	`CREATE INDEX IF NOT EXISTS telemetry_store_idx ON telemetry (store_id, ts_datetime)`,
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w\n%s", err, stmt)
		}
	}
	return nil
}
