// internal/service/sweeper_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/metrics"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// SweeperService zeroes expired credit batches and reconciles the owning
// wallets. It runs on a daily schedule and is safe to invoke more than once:
// a second run only sees batches that still hold credits.
type SweeperService interface {
	SweepExpired(ctx context.Context) (*domain.SweepReport, error)
}

type sweeperService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	walletRepo      repository.WalletRepository
	batchRepo       repository.BatchRepository
	transactionRepo repository.TransactionRepository
	locks           *WalletLocker
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewSweeperService creates a new instance of SweeperService.
func NewSweeperService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	batchRepo repository.BatchRepository,
	transactionRepo repository.TransactionRepository,
	locks *WalletLocker,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) SweeperService {
	return &sweeperService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
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

// SweepExpired finds every batch past its expiry that still holds credits,
// zeroes it and decrements the owning wallet, one transaction record per
// batch. Per-batch failures are isolated: one failing batch never aborts the
// sweep of the others.
func (s *sweeperService) SweepExpired(ctx context.Context) (*domain.SweepReport, error) {
	now := time.Now().UTC()
	expired, err := s.batchRepo.ListExpired(ctx, s.dbExecutor, now)
	if err != nil {
		return nil, fmt.Errorf("sweep: failed to list expired batches: %w", err)
	}

	report := &domain.SweepReport{}
	for i := range expired {
		batch := &expired[i]
		expiredCredits, err := s.sweepBatch(ctx, batch.ID, batch.WalletID)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("batch %d: %v", batch.ID, err))
			metrics.SweepBatchFailures.Inc()
			s.logger.Error("failed to sweep expired batch",
				"batch_id", batch.ID, "wallet_id", batch.WalletID, "error", err)
			continue
		}
		if expiredCredits > 0 {
			report.Processed++
			report.TotalExpiredCredits += expiredCredits
			metrics.CreditsExpired.Add(float64(expiredCredits))
		}
	}

	s.logger.Info("expiration sweep finished",
		"processed", report.Processed, "failed", report.Failed,
		"total_expired_credits", report.TotalExpiredCredits)
	return report, nil
}

// sweepBatch expires a single batch under the owning wallet's lock. Returns
// the number of credits expired; zero means another sweep got there first.
func (s *sweeperService) sweepBatch(ctx context.Context, batchID, walletID int64) (int64, error) {
	unlock := s.locks.Lock(walletID)
	defer unlock()

	var expiredCredits int64

	err := withConflictRetry(ctx, func(ctx context.Context) error {
		expiredCredits = 0

		txController, err := s.beginTx(ctx, s.dbBeginner)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer s.rollbackTx(txController)

		txExecutor, ok := txController.(repository.DBExecutor)
		if !ok {
			return fmt.Errorf("transaction controller does not implement DBExecutor")
		}

		// Re-read under the lock: a concurrent spend or an earlier sweep run
		// may have drained the batch since the listing.
		batch, err := s.batchRepo.GetBatchByID(ctx, txExecutor, batchID)
		if err != nil {
			return fmt.Errorf("failed to re-read batch: %w", err)
		}
		if batch.Remaining == 0 {
			return nil
		}

		wallet, err := s.walletRepo.GetWalletByID(ctx, txExecutor, walletID)
		if err != nil {
			return fmt.Errorf("failed to get wallet: %w", err)
		}

		// The balance should always cover the batch remainder. If it does
		// not, clamp at zero rather than driving the wallet negative, and
		// log the inconsistency for investigation.
		decrement := batch.Remaining
		if wallet.Balance < decrement {
			s.logger.Error("wallet balance below expiring batch remainder, clamping at zero",
				"wallet_id", walletID, "batch_id", batchID,
				"balance", wallet.Balance, "remaining", batch.Remaining)
			decrement = wallet.Balance
		}

		if err := s.batchRepo.UpdateRemaining(ctx, txExecutor, batchID, 0); err != nil {
			return fmt.Errorf("failed to zero batch: %w", err)
		}

		if decrement > 0 {
			delta := repository.WalletDelta{Balance: -decrement}
			if err := s.walletRepo.ApplyDelta(ctx, txExecutor, walletID, delta, wallet.Version); err != nil {
				return fmt.Errorf("failed to decrement wallet: %w", err)
			}
		}

		transaction := domain.NewExpirationTransaction(walletID, batchID, batch.Remaining)
		if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
			return fmt.Errorf("failed to create expiration transaction: %w", err)
		}

		if err := s.commitTx(txController); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		expiredCredits = batch.Remaining
		return nil
	})
	return expiredCredits, err
}
