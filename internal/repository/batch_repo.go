// internal/repository/batch_repo.go
package repository

import (
	"context"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// BatchRepository defines the interface for credit batch data operations.
type BatchRepository interface {
	// CreateBatch adds a new credit batch using the provided DBExecutor.
	CreateBatch(ctx context.Context, q DBExecutor, batch *domain.CreditBatch) error
	// GetUsableBatches returns the wallet's batches with remaining credits
	// that have not expired at the given moment, oldest first (ties broken by
	// id for determinism). Run inside a transaction it takes row locks, so a
	// concurrent spend cannot read the same availability.
	GetUsableBatches(ctx context.Context, q DBExecutor, walletID int64, now time.Time) ([]domain.CreditBatch, error)
	// GetBatchByID retrieves a single batch, locking its row when run inside
	// a transaction.
	GetBatchByID(ctx context.Context, q DBExecutor, id int64) (*domain.CreditBatch, error)
	// UpdateRemaining persists a batch's decreased remaining amount.
	UpdateRemaining(ctx context.Context, q DBExecutor, batchID, remaining int64) error
	// ListExpired returns all batches past their expiry that still hold
	// credits, across all wallets. Input for the expiration sweeper.
	ListExpired(ctx context.Context, q DBExecutor, now time.Time) ([]domain.CreditBatch, error)
}
