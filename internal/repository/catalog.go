// internal/repository/catalog.go
package repository

import (
	"context"

	"github.com/shelfsense/backend/internal/domain"
)

// CatalogRepository reads the slowly changing reference data: stores, SKUs
// and the inter-store distance matrix.
type CatalogRepository interface {
	GetStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	GetSKUs(ctx context.Context) ([]domain.SKU, error)
	GetSKU(ctx context.Context, id int64) (*domain.SKU, error)
	GetStoreDistances(ctx context.Context) ([]domain.StoreDistance, error)
}
