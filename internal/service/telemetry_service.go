package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/repository"
)

const defaultTelemetryLimit = 100

// TelemetryService records environmental sensor readings. Readings are kept
// as observations; they never adjust inventory.
type TelemetryService struct {
	catalog   repository.CatalogRepository
	telemetry repository.TelemetryRepository
}

func NewTelemetryService(catalog repository.CatalogRepository, telemetry repository.TelemetryRepository) *TelemetryService {
	return &TelemetryService{catalog: catalog, telemetry: telemetry}
}

func (s *TelemetryService) Record(ctx context.Context, reading domain.TelemetryReading) (*domain.TelemetryReading, error) {
	if _, err := s.catalog.GetStore(ctx, reading.StoreID); err != nil {
		return nil, err
	}
	if reading.Sensor == "" {
		return nil, fmt.Errorf("%w: sensor name is required", domain.ErrInvalidRange)
	}
	if reading.TsTime.IsZero() {
		reading.TsTime = time.Now()
	}

	return s.telemetry.InsertReading(ctx, reading)
}

func (s *TelemetryService) Recent(ctx context.Context, storeID int64, sensor string, limit int) ([]domain.TelemetryReading, error) {
	if _, err := s.catalog.GetStore(ctx, storeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTelemetryLimit
	}

	return s.telemetry.RecentReadings(ctx, storeID, sensor, limit)
}
