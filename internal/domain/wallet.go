// internal/domain/wallet.go
package domain

import (
	"time"
)

// Wallet holds the prepaid credit balance of one employer.
//
// Invariant: Balance == TotalPurchased - TotalSpent - total expired credits
// (the expired total is tracked through expiration transactions). The wallet
// is mutated only through the purchase path, the spend engine and the
// expiration sweeper, never by direct field edits.
type Wallet struct {
	ID             int64     `db:"id" json:"id"`
	EmployerID     int64     `db:"employer_id" json:"employer_id"`
	Balance        int64     `db:"balance" json:"balance"`                 // current credits, never negative
	TotalPurchased int64     `db:"total_purchased" json:"total_purchased"` // monotonic non-decreasing
	TotalSpent     int64     `db:"total_spent" json:"total_spent"`         // monotonic non-decreasing
	Version        int64     `db:"version" json:"-"`                       // optimistic-concurrency token
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewWallet creates an empty wallet for an employer.
func NewWallet(employerID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		EmployerID: employerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreditBatch is one purchase or grant worth of credits with its own
// expiration date. Batches are the unit of FIFO consumption: the spend engine
// drains the oldest usable batch first.
//
// Remaining only ever decreases. Once Remaining reaches 0 or ExpiresAt has
// passed, the batch is inert.
type CreditBatch struct {
	ID        int64     `db:"id" json:"id"`
	WalletID  int64     `db:"wallet_id" json:"wallet_id"`
	Amount    int64     `db:"amount" json:"amount"`       // original credits
	Remaining int64     `db:"remaining" json:"remaining"` // <= Amount, >= 0
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewCreditBatch creates a batch of freshly purchased credits valid for the
// given number of months.
func NewCreditBatch(walletID, credits int64, validityMonths int) *CreditBatch {
	now := time.Now().UTC()
	return &CreditBatch{
		WalletID:  walletID,
		Amount:    credits,
		Remaining: credits,
		ExpiresAt: now.AddDate(0, validityMonths, 0),
		CreatedAt: now,
	}
}

// Expired reports whether the batch's validity period has passed at the given
// moment.
func (b *CreditBatch) Expired(now time.Time) bool {
	return !b.ExpiresAt.After(now)
}

// Usable reports whether the batch can still be consumed from.
func (b *CreditBatch) Usable(now time.Time) bool {
	return b.Remaining > 0 && !b.Expired(now)
}

// SweepReport aggregates the outcome of one expiration sweep. Per-batch
// failures are isolated, so the report can carry both successes and errors.
type SweepReport struct {
	Processed           int      `json:"processed"`
	Failed              int      `json:"failed"`
	TotalExpiredCredits int64    `json:"total_expired_credits"`
	Errors              []string `json:"errors,omitempty"`
}
