// internal/repository/postgres/wallet_pg.go
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

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (employer_id, balance, total_purchased, total_spent, version, created_at, updated_at)
              VALUES ($1, $2, $3, $4, 1, $5, $6) RETURNING id, version`
	err := q.QueryRowContext(ctx, query,
		wallet.EmployerID, wallet.Balance, wallet.TotalPurchased, wallet.TotalSpent,
		wallet.CreatedAt, wallet.UpdatedAt,
	).Scan(&wallet.ID, &wallet.Version)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetWalletByID retrieves a wallet by its ID using the provided DBExecutor.
func (r *WalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT id, employer_id, balance, total_purchased, total_spent, version, created_at, updated_at
              FROM wallets WHERE id = $1`
	err := q.GetContext(ctx, &wallet, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID %d: %w", id, err)
	}
	return &wallet, nil
}

// GetWalletByEmployerID retrieves the wallet owned by an employer.
func (r *WalletRepository) GetWalletByEmployerID(ctx context.Context, q repository.DBExecutor, employerID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT id, employer_id, balance, total_purchased, total_spent, version, created_at, updated_at
              FROM wallets WHERE employer_id = $1`
	err := q.GetContext(ctx, &wallet, query, employerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by employer ID %d: %w", employerID, err)
	}
	return &wallet, nil
}

// ApplyDelta applies a guarded wallet mutation. The version predicate is the
// optimistic-concurrency check: zero rows affected means another writer got
// there first and the caller must retry.
func (r *WalletRepository) ApplyDelta(ctx context.Context, q repository.DBExecutor, walletID int64, delta repository.WalletDelta, expectedVersion int64) error {
	query := `UPDATE wallets
              SET balance = balance + $1,
                  total_purchased = total_purchased + $2,
                  total_spent = total_spent + $3,
                  version = version + 1,
                  updated_at = $4
              WHERE id = $5 AND version = $6`
	result, err := q.ExecContext(ctx, query,
		delta.Balance, delta.TotalPurchased, delta.TotalSpent,
		time.Now().UTC(), walletID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to apply delta to wallet %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return util.ErrPersistenceConflict
	}
	return nil
}
