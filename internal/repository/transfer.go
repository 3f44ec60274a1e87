// internal/repository/transfer.go
package repository

import (
	"context"

	"github.com/shelfsense/backend/internal/domain"
)

// TransferRepository manages committed transfer records. Recommendations are
// derived on the fly and never stored; only explicitly created drafts land
// here.
type TransferRepository interface {
	// ListTransfers returns transfers touching a store (either side), most
	// recent first. storeID zero lists all; status empty lists any status.
	ListTransfers(ctx context.Context, storeID int64, status string, limit int) ([]domain.Transfer, error)

	// GetTransfer returns one transfer or domain.ErrNotFound.
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)

	// CreateDraft inserts a draft transfer. Re-submitting the same
	// (from, to, sku, requested_for) draft is a no-op; the second return
	// reports whether a new row was created.
	CreateDraft(ctx context.Context, t domain.Transfer) (*domain.Transfer, bool, error)

	// UpdateStatus moves a transfer through its lifecycle and returns the
	// updated row.
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Transfer, error)
}
