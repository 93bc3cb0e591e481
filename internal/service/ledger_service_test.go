// internal/service/ledger_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

func TestCreateEmployer(t *testing.T) {
	t.Run("CreatesEmployerWithEmptyWallet", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		employer, wallet, err := f.ledger.CreateEmployer(ctx, "Acme BV")

		require.NoError(t, err)
		assert.Equal(t, "Acme BV", employer.Name)
		assert.Equal(t, employer.ID, wallet.EmployerID)
		assert.Zero(t, wallet.Balance)
		assert.Zero(t, wallet.TotalPurchased)
	})

	t.Run("RejectsEmptyName", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.ledger.CreateEmployer(context.Background(), "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestPurchase(t *testing.T) {
	t.Run("CreatesBatchAndRaisesBalance", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		w := f.store.seedWallet(1, 0)

		batch, wallet, err := f.ledger.Purchase(ctx, w.ID, 25, 12, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(25), batch.Amount)
		assert.Equal(t, int64(25), batch.Remaining)
		assert.Equal(t, int64(25), wallet.Balance)
		assert.Equal(t, int64(25), wallet.TotalPurchased)

		stored := f.store.wallet(w.ID)
		assert.Equal(t, int64(25), stored.Balance)

		transactions := f.store.transactionsOf(w.ID)
		require.Len(t, transactions, 1)
		assert.Equal(t, domain.TransactionTypePurchase, transactions[0].Type)
		assert.Equal(t, int64(25), transactions[0].TotalCredits)
		require.NotNil(t, transactions[0].BatchID)
		assert.Equal(t, batch.ID, *transactions[0].BatchID)
		assert.NotEmpty(t, transactions[0].Reference)
	})

	t.Run("ExpiryFollowsValidityMonths", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 0)

		batch, _, err := f.ledger.Purchase(context.Background(), w.ID, 10, 6, nil)

		require.NoError(t, err)
		wantExpiry := time.Now().UTC().AddDate(0, 6, 0)
		assert.WithinDuration(t, wantExpiry, batch.ExpiresAt, time.Minute)
	})

	t.Run("RejectsNonPositiveCredits", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 0)

		_, _, err := f.ledger.Purchase(context.Background(), w.ID, 0, 12, nil)
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, _, err = f.ledger.Purchase(context.Background(), w.ID, -5, 12, nil)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("RejectsNonPositiveValidity", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 0)

		_, _, err := f.ledger.Purchase(context.Background(), w.ID, 10, 0, nil)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UnknownWallet", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.ledger.Purchase(context.Background(), 404, 10, 12, nil)

		assert.ErrorIs(t, err, util.ErrWalletNotFound)
	})
}

func TestSpendWithin(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("ConsumesOldestBatchFirst", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 15)
		old := f.store.seedBatch(w.ID, 5, now.Add(-48*time.Hour), now.AddDate(1, 0, 0))
		newer := f.store.seedBatch(w.ID, 10, now.Add(-time.Hour), now.AddDate(1, 0, 0))

		wallet := f.store.wallet(w.ID)
		result, err := f.ledger.SpendWithin(ctx, nil, &wallet, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.Consumed)
		assert.Zero(t, result.Shortage)
		assert.Equal(t, []int64{old.ID, newer.ID}, result.BatchesTouched)

		assert.Zero(t, f.store.batch(old.ID).Remaining)
		assert.Equal(t, int64(8), f.store.batch(newer.ID).Remaining)
		assert.Equal(t, int64(8), f.store.wallet(w.ID).Balance)
		assert.Equal(t, int64(7), f.store.wallet(w.ID).TotalSpent)
	})

	t.Run("ShortageWhenBatchesRunOut", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 15)
		f.store.seedBatch(w.ID, 15, now.Add(-time.Hour), now.AddDate(1, 0, 0))

		wallet := f.store.wallet(w.ID)
		result, err := f.ledger.SpendWithin(ctx, nil, &wallet, 20)

		require.NoError(t, err)
		assert.Equal(t, int64(15), result.Consumed)
		assert.Equal(t, int64(5), result.Shortage)
		// The wallet drops only by what was consumed, never below zero.
		assert.Zero(t, f.store.wallet(w.ID).Balance)
		assert.Equal(t, int64(15), f.store.wallet(w.ID).TotalSpent)
	})

	t.Run("SkipsExpiredBatches", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 10)
		expired := f.store.seedBatch(w.ID, 6, now.Add(-72*time.Hour), now.Add(-time.Hour))
		valid := f.store.seedBatch(w.ID, 4, now.Add(-time.Hour), now.AddDate(1, 0, 0))

		wallet := f.store.wallet(w.ID)
		result, err := f.ledger.SpendWithin(ctx, nil, &wallet, 5)

		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Consumed)
		assert.Equal(t, int64(1), result.Shortage)
		assert.Equal(t, int64(6), f.store.batch(expired.ID).Remaining)
		assert.Zero(t, f.store.batch(valid.ID).Remaining)
	})

	t.Run("ZeroAmountIsNoOp", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 10)
		f.store.seedBatch(w.ID, 10, now.Add(-time.Hour), now.AddDate(1, 0, 0))

		wallet := f.store.wallet(w.ID)
		result, err := f.ledger.SpendWithin(ctx, nil, &wallet, 0)

		require.NoError(t, err)
		assert.Zero(t, result.Consumed)
		assert.Zero(t, result.Shortage)
		assert.Equal(t, int64(10), f.store.wallet(w.ID).Balance)
	})

	t.Run("RejectsNegativeAmount", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 10)

		wallet := f.store.wallet(w.ID)
		_, err := f.ledger.SpendWithin(ctx, nil, &wallet, -1)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("WritesNoTransactionRecord", func(t *testing.T) {
		f := newFixture(t)
		w := f.store.seedWallet(1, 10)
		f.store.seedBatch(w.ID, 10, now.Add(-time.Hour), now.AddDate(1, 0, 0))

		wallet := f.store.wallet(w.ID)
		_, err := f.ledger.SpendWithin(ctx, nil, &wallet, 4)

		require.NoError(t, err)
		// The one spend record per business action is the caller's job.
		assert.Empty(t, f.store.transactionsOf(w.ID))
	})
}

func TestGetTransactionHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.store.seedWallet(1, 0)

	for i := 0; i < 3; i++ {
		_, _, err := f.ledger.Purchase(ctx, w.ID, int64(10+i), 12, nil)
		require.NoError(t, err)
	}

	t.Run("NewestFirstWithTotalCount", func(t *testing.T) {
		transactions, total, err := f.ledger.GetTransactionHistory(ctx, w.ID, 2, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, transactions, 2)
		assert.Equal(t, int64(12), transactions[0].TotalCredits)
		assert.Equal(t, int64(11), transactions[1].TotalCredits)
	})

	t.Run("OffsetPastEnd", func(t *testing.T) {
		transactions, total, err := f.ledger.GetTransactionHistory(ctx, w.ID, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, transactions)
	})

	t.Run("UnknownWallet", func(t *testing.T) {
		_, _, err := f.ledger.GetTransactionHistory(ctx, 404, 10, 0)

		assert.ErrorIs(t, err, util.ErrWalletNotFound)
	})
}

func TestConservation(t *testing.T) {
	t.Run("HoldsAcrossPurchaseSpendAndSweep", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		now := time.Now().UTC()

		// balance == total_purchased - total_spent - total expired, checked
		// after every operation that moves credits.
		conserved := func(walletID int64) {
			t.Helper()
			w := f.store.wallet(walletID)
			var expired int64
			for _, tx := range f.store.transactionsOf(walletID) {
				if tx.Type == domain.TransactionTypeExpiration {
					expired += tx.TotalCredits
				}
			}
			assert.Equal(t, w.TotalPurchased-w.TotalSpent-expired, w.Balance)
		}

		w := f.store.seedWallet(1, 5)
		f.store.seedBatch(w.ID, 5, now.Add(-48*time.Hour), now.Add(-time.Hour))
		conserved(w.ID)

		_, _, err := f.ledger.Purchase(ctx, w.ID, 20, 12, nil)
		require.NoError(t, err)
		conserved(w.ID)

		wallet := f.store.wallet(w.ID)
		res, err := f.ledger.SpendWithin(ctx, nil, &wallet, 7)
		require.NoError(t, err)
		assert.Zero(t, res.Shortage)
		conserved(w.ID)

		report, err := f.sweeper.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Failed)
		assert.Equal(t, int64(5), report.TotalExpiredCredits)
		conserved(w.ID)

		// 5 + 20 purchased, 7 spent, 5 expired.
		assert.Equal(t, int64(13), f.store.wallet(w.ID).Balance)
	})
}
