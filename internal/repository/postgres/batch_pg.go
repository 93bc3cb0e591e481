// internal/repository/postgres/batch_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// BatchRepository implements repository.BatchRepository for PostgreSQL.
type BatchRepository struct{}

// NewBatchRepository creates a new BatchRepository.
func NewBatchRepository() repository.BatchRepository {
	return &BatchRepository{}
}

// CreateBatch inserts a new credit batch using the provided DBExecutor.
func (r *BatchRepository) CreateBatch(ctx context.Context, q repository.DBExecutor, batch *domain.CreditBatch) error {
	query := `INSERT INTO credit_batches (wallet_id, amount, remaining, expires_at, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		batch.WalletID, batch.Amount, batch.Remaining, batch.ExpiresAt, batch.CreatedAt,
	).Scan(&batch.ID)
	if err != nil {
		return fmt.Errorf("failed to create credit batch: %w", err)
	}
	return nil
}

// GetUsableBatches returns the wallet's consumable batches oldest first.
// FOR UPDATE locks the rows for the duration of the surrounding transaction.
func (r *BatchRepository) GetUsableBatches(ctx context.Context, q repository.DBExecutor, walletID int64, now time.Time) ([]domain.CreditBatch, error) {
	batches := []domain.CreditBatch{}
	query := `SELECT id, wallet_id, amount, remaining, expires_at, created_at
              FROM credit_batches
              WHERE wallet_id = $1 AND remaining > 0 AND expires_at > $2
              ORDER BY created_at ASC, id ASC
              FOR UPDATE`
	if err := q.SelectContext(ctx, &batches, query, walletID, now); err != nil {
		return nil, fmt.Errorf("failed to get usable batches for wallet %d: %w", walletID, err)
	}
	return batches, nil
}

// GetBatchByID retrieves a single batch, locking its row inside a transaction.
func (r *BatchRepository) GetBatchByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.CreditBatch, error) {
	var batch domain.CreditBatch
	query := `SELECT id, wallet_id, amount, remaining, expires_at, created_at
              FROM credit_batches WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &batch, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credit batch %d: %w", id, err)
	}
	return &batch, nil
}

// UpdateRemaining persists a batch's new remaining amount. The predicate
// enforces that remaining only ever decreases.
func (r *BatchRepository) UpdateRemaining(ctx context.Context, q repository.DBExecutor, batchID, remaining int64) error {
	query := `UPDATE credit_batches SET remaining = $1 WHERE id = $2 AND remaining >= $1`
	result, err := q.ExecContext(ctx, query, remaining, batchID)
	if err != nil {
		return fmt.Errorf("failed to update remaining for batch %d: %w", batchID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for batch %d: %w", batchID, err)
	}
	if rowsAffected == 0 {
		return util.ErrPersistenceConflict
	}
	return nil
}

// ListExpired returns all batches past expiry that still hold credits.
func (r *BatchRepository) ListExpired(ctx context.Context, q repository.DBExecutor, now time.Time) ([]domain.CreditBatch, error) {
	batches := []domain.CreditBatch{}
	query := `SELECT id, wallet_id, amount, remaining, expires_at, created_at
              FROM credit_batches
              WHERE expires_at < $1 AND remaining > 0
              ORDER BY wallet_id ASC, id ASC`
	if err := q.SelectContext(ctx, &batches, query, now); err != nil {
		return nil, fmt.Errorf("failed to list expired batches: %w", err)
	}
	return batches, nil
}
