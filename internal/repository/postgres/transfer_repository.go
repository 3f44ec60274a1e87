// internal/repository/postgres/transfer_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfsense/backend/internal/domain"
)

type transferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) *transferRepository {
	return &transferRepository{db: db}
}

const transferColumns = `
	t.id,
	t.from_store_id,
	fs.name AS from_store_name,
	t.to_store_id,
	ts.name AS to_store_name,
	t.sku_id,
	sk.name AS sku_name,
	t.qty,
	t.status,
	t.requested_for,
	t.created_at,
	t.received_at
`

const transferJoins = `
	FROM transfers t
	JOIN stores fs ON fs.id = t.from_store_id
	JOIN stores ts ON ts.id = t.to_store_id
	JOIN skus sk ON sk.id = t.sku_id
`

func (r *transferRepository) ListTransfers(ctx context.Context, storeID int64, status string, limit int) ([]domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + transferJoins + `
		WHERE ($1 = 0 OR t.from_store_id = $1 OR t.to_store_id = $1)
		  AND ($2 = '' OR t.status = $2)
		ORDER BY t.created_at DESC
		LIMIT $3
	`

	var transfers []domain.Transfer
	if err := r.db.SelectContext(ctx, &transfers, query, storeID, status, limit); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	return transfers, nil
}

func (r *transferRepository) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + transferJoins + `
		WHERE t.id = $1
	`

	var transfer domain.Transfer
	if err := r.db.GetContext(ctx, &transfer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transfer %d: %w", id, err)
	}

	return &transfer, nil
}

func (r *transferRepository) CreateDraft(ctx context.Context, t domain.Transfer) (*domain.Transfer, bool, error) {
	// The unique (from, to, sku, requested_for) draft index makes repeated
	// submissions of the same recommendation a no-op.
	query := `
		INSERT INTO transfers (from_store_id, to_store_id, sku_id, qty, status, requested_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (from_store_id, to_store_id, sku_id, requested_for)
			WHERE status = 'draft'
		DO NOTHING
		RETURNING id
	`

	var id int64
	created := true
	err := r.db.QueryRowContext(ctx, query,
		t.FromStoreID, t.ToStoreID, t.SKUID, t.Qty, domain.TransferDraft, t.RequestedFor,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: the draft already exists, fetch it.
		created = false
		existing := `
			SELECT id FROM transfers
			WHERE from_store_id = $1 AND to_store_id = $2 AND sku_id = $3
			  AND requested_for = $4 AND status = 'draft'
		`
		err = r.db.GetContext(ctx, &id, existing, t.FromStoreID, t.ToStoreID, t.SKUID, t.RequestedFor)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create transfer draft: %w", err)
	}

	transfer, err := r.GetTransfer(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return transfer, created, nil
}

func (r *transferRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Transfer, error) {
	query := `
		UPDATE transfers
		SET status = $2,
		    received_at = CASE WHEN $2 = 'received' THEN NOW() ELSE received_at END
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update transfer %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetTransfer(ctx, id)
}
