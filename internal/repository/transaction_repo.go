// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// TransactionRepository defines the interface for ledger transaction records.
// The table is append-only: there are deliberately no update or delete
// operations here.
type TransactionRepository interface {
	// CreateTransaction appends a new transaction record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByWalletID retrieves transaction history for a wallet,
	// newest first, with the total count for pagination.
	GetTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, int64, error)
	// GetTransactionsByVacancyID retrieves every ledger record tied to a
	// vacancy, oldest first.
	GetTransactionsByVacancyID(ctx context.Context, q DBExecutor, vacancyID int64) ([]domain.Transaction, error)
}
