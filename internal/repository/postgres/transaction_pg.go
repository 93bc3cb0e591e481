// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL. Inserts only; the ledger history is immutable.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new transaction record.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions
              (reference, wallet_id, type, context, total_credits, total_cost,
               credits_shortage, invoice_amount, batch_id, vacancy_id, product_ids, actor_id, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.Reference,
		transaction.WalletID,
		transaction.Type,
		transaction.Context,
		transaction.TotalCredits,
		transaction.TotalCost,
		transaction.CreditsShortage,
		transaction.InvoiceAmount,
		transaction.BatchID,
		transaction.VacancyID,
		transaction.ProductIDs,
		transaction.ActorID,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByWalletID retrieves a paginated transaction history for a
// wallet, newest first, plus the total count.
func (r *TransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `SELECT id, reference, wallet_id, type, context, total_credits, total_cost,
                     credits_shortage, invoice_amount, batch_id, vacancy_id, product_ids, actor_id, created_at
              FROM transactions
              WHERE wallet_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, walletID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, walletID); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for wallet %d: %w", walletID, err)
	}

	return transactions, totalCount, nil
}

// GetTransactionsByVacancyID retrieves every ledger record tied to a vacancy.
func (r *TransactionRepository) GetTransactionsByVacancyID(ctx context.Context, q repository.DBExecutor, vacancyID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT id, reference, wallet_id, type, context, total_credits, total_cost,
                     credits_shortage, invoice_amount, batch_id, vacancy_id, product_ids, actor_id, created_at
              FROM transactions
              WHERE vacancy_id = $1
              ORDER BY created_at ASC, id ASC`
	if err := q.SelectContext(ctx, &transactions, query, vacancyID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for vacancy %d: %w", vacancyID, err)
	}
	return transactions, nil
}
