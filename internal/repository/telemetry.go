// internal/repository/telemetry.go
package repository

import (
	"context"

	"github.com/shelfsense/backend/internal/domain"
)

// TelemetryRepository stores environmental sensor readings. Readings are
// observations only and never feed back into inventory state.
type TelemetryRepository interface {
	InsertReading(ctx context.Context, reading domain.TelemetryReading) (*domain.TelemetryReading, error)
	RecentReadings(ctx context.Context, storeID int64, sensor string, limit int) ([]domain.TelemetryReading, error)
}
