// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/metrics"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// SpendResult describes what the FIFO spend engine actually did. Consumed
// plus Shortage always equals the requested amount.
type SpendResult struct {
	Consumed       int64
	Shortage       int64
	BatchesTouched []int64
}

// LedgerService defines the credit ledger operations: employer/wallet
// creation, credit purchases, the FIFO spend engine and history reads.
type LedgerService interface {
	CreateEmployer(ctx context.Context, name string) (*domain.Employer, *domain.Wallet, error)
	Purchase(ctx context.Context, walletID, credits int64, validityMonths int, actorID *int64) (*domain.CreditBatch, *domain.Wallet, error)
	GetBalance(ctx context.Context, walletID int64) (*domain.Wallet, error)
	GetTransactionHistory(ctx context.Context, walletID int64, limit, offset int) ([]domain.Transaction, int64, error)

	// SpendWithin runs the FIFO spend engine inside the caller's transaction,
	// against a wallet the caller has already loaded under its per-wallet
	// lock. It decrements batches oldest-first and applies the wallet delta,
	// but deliberately writes no transaction record: the caller writes one
	// spend transaction once the shortage and invoice terms are known.
	SpendWithin(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount int64) (*SpendResult, error)
}

// ledgerService implements LedgerService.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	employerRepo    repository.EmployerRepository
	walletRepo      repository.WalletRepository
	batchRepo       repository.BatchRepository
	transactionRepo repository.TransactionRepository
	locks           *WalletLocker
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	employerRepo repository.EmployerRepository,
	walletRepo repository.WalletRepository,
	batchRepo repository.BatchRepository,
	transactionRepo repository.TransactionRepository,
	locks *WalletLocker,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		employerRepo:    employerRepo,
		walletRepo:      walletRepo,
		batchRepo:       batchRepo,
		transactionRepo: transactionRepo,
		locks:           locks,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger,
	}
}

// withConflictRetry re-runs fn a bounded number of times when it fails with
// ErrPersistenceConflict. Conflicts come from the optimistic wallet version
// check; under the per-wallet lock they only occur across instances.
func withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(25*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, util.ErrPersistenceConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// CreateEmployer creates an employer and its wallet atomically.
func (s *ledgerService) CreateEmployer(ctx context.Context, name string) (*domain.Employer, *domain.Wallet, error) {
	if name == "" {
		return nil, nil, util.NewValidationError("name", "required field is missing")
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("create employer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("create employer: transaction controller does not implement DBExecutor")
	}

	employer := domain.NewEmployer(name)
	if err := s.employerRepo.CreateEmployer(ctx, txExecutor, employer); err != nil {
		return nil, nil, fmt.Errorf("create employer: %w", err)
	}

	wallet := domain.NewWallet(employer.ID)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, nil, fmt.Errorf("create employer: failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("create employer: failed to commit transaction: %w", err)
	}

	return employer, wallet, nil
}

// Purchase creates a credit batch valid for the given number of months,
// raises the wallet's balance and lifetime-purchased counters and writes a
// purchase transaction, all atomically.
func (s *ledgerService) Purchase(ctx context.Context, walletID, credits int64, validityMonths int, actorID *int64) (*domain.CreditBatch, *domain.Wallet, error) {
	if credits <= 0 {
		return nil, nil, util.NewValidationError("credits", "must be a positive integer")
	}
	if validityMonths <= 0 {
		return nil, nil, util.NewValidationError("validity_months", "must be a positive integer")
	}

	// Purchases serialize against concurrent spends on the same wallet, so a
	// spend never observes a half-committed purchase.
	unlock := s.locks.Lock(walletID)
	defer unlock()

	var (
		batch  *domain.CreditBatch
		wallet *domain.Wallet
	)

	err := withConflictRetry(ctx, func(ctx context.Context) error {
		txController, err := s.beginTx(ctx, s.dbBeginner)
		if err != nil {
			return fmt.Errorf("purchase: failed to begin transaction: %w", err)
		}
		defer s.rollbackTx(txController)

		txExecutor, ok := txController.(repository.DBExecutor)
		if !ok {
			return fmt.Errorf("purchase: transaction controller does not implement DBExecutor")
		}

		wallet, err = s.walletRepo.GetWalletByID(ctx, txExecutor, walletID)
		if err != nil {
			return fmt.Errorf("purchase: failed to get wallet %d: %w", walletID, err)
		}

		batch = domain.NewCreditBatch(walletID, credits, validityMonths)
		if err := s.batchRepo.CreateBatch(ctx, txExecutor, batch); err != nil {
			return fmt.Errorf("purchase: failed to create batch: %w", err)
		}

		delta := repository.WalletDelta{Balance: credits, TotalPurchased: credits}
		if err := s.walletRepo.ApplyDelta(ctx, txExecutor, walletID, delta, wallet.Version); err != nil {
			return fmt.Errorf("purchase: failed to update wallet: %w", err)
		}
		wallet.Balance += credits
		wallet.TotalPurchased += credits
		wallet.Version++

		transaction := domain.NewPurchaseTransaction(walletID, batch.ID, credits, actorID)
		if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
			return fmt.Errorf("purchase: failed to create transaction: %w", err)
		}

		if err := s.commitTx(txController); err != nil {
			return fmt.Errorf("purchase: failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.CreditsPurchased.Add(float64(credits))
	s.logger.Info("credits purchased",
		"wallet_id", walletID, "batch_id", batch.ID,
		"credits", credits, "expires_at", batch.ExpiresAt)

	return batch, wallet, nil
}

// SpendWithin walks the wallet's non-expired batches oldest first (ties
// broken by batch id), consuming from each until the amount is covered or
// the batches run out. The wallet is decremented only by what was actually
// consumed; the unconsumed residual comes back as Shortage.
func (s *ledgerService) SpendWithin(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount int64) (*SpendResult, error) {
	if amount < 0 {
		return nil, util.NewValidationError("amount", "must not be negative")
	}
	if amount == 0 {
		return &SpendResult{}, nil
	}

	batches, err := s.batchRepo.GetUsableBatches(ctx, q, wallet.ID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("spend: %w", err)
	}

	result := &SpendResult{Shortage: amount}
	for i := range batches {
		if result.Shortage == 0 {
			break
		}
		batch := &batches[i]
		take := batch.Remaining
		if take > result.Shortage {
			take = result.Shortage
		}
		batch.Remaining -= take
		if err := s.batchRepo.UpdateRemaining(ctx, q, batch.ID, batch.Remaining); err != nil {
			return nil, fmt.Errorf("spend: failed to decrement batch %d: %w", batch.ID, err)
		}
		result.Consumed += take
		result.Shortage -= take
		result.BatchesTouched = append(result.BatchesTouched, batch.ID)
	}

	if result.Consumed > 0 {
		delta := repository.WalletDelta{Balance: -result.Consumed, TotalSpent: result.Consumed}
		if err := s.walletRepo.ApplyDelta(ctx, q, wallet.ID, delta, wallet.Version); err != nil {
			return nil, fmt.Errorf("spend: failed to update wallet %d: %w", wallet.ID, err)
		}
		wallet.Balance -= result.Consumed
		wallet.TotalSpent += result.Consumed
		wallet.Version++
		metrics.CreditsSpent.Add(float64(result.Consumed))
	}

	return result, nil
}

// GetBalance retrieves the wallet, outside any transaction.
func (s *ledgerService) GetBalance(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByID(ctx, s.dbExecutor, walletID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

// GetTransactionHistory retrieves a paginated list of the wallet's ledger
// records, newest first.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, walletID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	if _, err := s.walletRepo.GetWalletByID(ctx, s.dbExecutor, walletID); err != nil {
		return nil, 0, fmt.Errorf("get history: %w", err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByWalletID(ctx, s.dbExecutor, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get history: %w", err)
	}
	return transactions, totalCount, nil
}
