// internal/repository/postgres/telemetry_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/domain"
)

type telemetryRepository struct {
	db *DB
}

func NewTelemetryRepository(db *DB) *telemetryRepository {
	return &telemetryRepository{db: db}
}

func (r *telemetryRepository) InsertReading(ctx context.Context, reading domain.TelemetryReading) (*domain.TelemetryReading, error) {
	query := `
		INSERT INTO telemetry (store_id, sensor, value, unit, ts_datetime)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query,
		reading.StoreID, reading.Sensor, reading.Value, reading.Unit, reading.TsTime,
	).Scan(&reading.ID); err != nil {
		return nil, fmt.Errorf("failed to insert telemetry reading: %w", err)
	}

	return &reading, nil
}

func (r *telemetryRepository) RecentReadings(ctx context.Context, storeID int64, sensor string, limit int) ([]domain.TelemetryReading, error) {
	query := `
		SELECT id, store_id, sensor, value, unit, ts_datetime
		FROM telemetry
		WHERE store_id = $1 AND ($2 = '' OR sensor = $2)
		ORDER BY ts_datetime DESC
		LIMIT $3
	`

	var readings []domain.TelemetryReading
	if err := r.db.SelectContext(ctx, &readings, query, storeID, sensor, limit); err != nil {
		return nil, fmt.Errorf("failed to get telemetry readings: %w", err)
	}

	return readings, nil
}
