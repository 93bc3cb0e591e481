// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// WalletDelta describes a single wallet mutation applied by the ledger.
// Deltas keep the monotonic counters honest: purchases only ever raise
// TotalPurchased, spends only ever raise TotalSpent.
type WalletDelta struct {
	Balance        int64
	TotalPurchased int64
	TotalSpent     int64
}

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet using the provided DBExecutor.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByID retrieves a wallet by its ID.
	GetWalletByID(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletByEmployerID retrieves the wallet owned by an employer.
	GetWalletByEmployerID(ctx context.Context, q DBExecutor, employerID int64) (*domain.Wallet, error)
	// ApplyDelta applies a balance/counter mutation guarded by the wallet's
	// optimistic version. It returns util.ErrPersistenceConflict when the
	// version no longer matches, so the caller can retry under its lock.
	ApplyDelta(ctx context.Context, q DBExecutor, walletID int64, delta WalletDelta, expectedVersion int64) error
}
