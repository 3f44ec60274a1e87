// internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfsense/backend/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetStores(ctx context.Context) ([]domain.Store, error) {
	query := `
		SELECT id, name, location, lat, lon
		FROM stores
		ORDER BY name
	`

	var stores []domain.Store
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to get stores: %w", err)
	}

	return stores, nil
}

func (r *catalogRepository) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	query := `
		SELECT id, name, location, lat, lon
		FROM stores
		WHERE id = $1
	`

	var store domain.Store
	if err := r.db.GetContext(ctx, &store, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}

	return &store, nil
}

func (r *catalogRepository) GetSKUs(ctx context.Context) ([]domain.SKU, error) {
	query := `
		SELECT id, name, category, cost, price, is_perishable
		FROM skus
		ORDER BY category, name
	`

	var skus []domain.SKU
	if err := r.db.SelectContext(ctx, &skus, query); err != nil {
		return nil, fmt.Errorf("failed to get skus: %w", err)
	}

	return skus, nil
}

func (r *catalogRepository) GetSKU(ctx context.Context, id int64) (*domain.SKU, error) {
	query := `
		SELECT id, name, category, cost, price, is_perishable
		FROM skus
		WHERE id = $1
	`

	var sku domain.SKU
	if err := r.db.GetContext(ctx, &sku, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sku %d: %w", id, err)
	}

	return &sku, nil
}

func (r *catalogRepository) GetStoreDistances(ctx context.Context) ([]domain.StoreDistance, error) {
	query := `
		SELECT from_store_id, to_store_id, distance_km, transfer_cost
		FROM store_distances
	`

	var distances []domain.StoreDistance
	if err := r.db.SelectContext(ctx, &distances, query); err != nil {
		return nil, fmt.Errorf("failed to get store distances: %w", err)
	}

	return distances, nil
}
