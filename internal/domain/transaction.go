// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TransactionType defines the variant of a ledger transaction.
type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "purchase"   // adds a batch, increases balance
	TransactionTypeSpend      TransactionType = "spend"      // credit consumption, possibly with an invoiced shortage
	TransactionTypeExpiration TransactionType = "expiration" // batch expired with remaining credits
)

// SpendContext records which business action a spend transaction paid for.
// Included-upsell transactions get their own explicit context so a zero-cost
// bundled upsell is never confused with a genuinely free product.
type SpendContext string

const (
	SpendContextVacancy  SpendContext = "vacancy"  // initial vacancy submission
	SpendContextBoost    SpendContext = "boost"    // upsell/extension of a published vacancy
	SpendContextRenew    SpendContext = "renew"    // republication of an expired or depublished vacancy
	SpendContextIncluded SpendContext = "included" // zero-cost audit record for a package-included upsell
)

// Transaction is an immutable audit record of a balance-affecting event.
// Created exactly once per ledger event, never mutated or deleted.
type Transaction struct {
	ID              int64           `db:"id" json:"id"`
	Reference       string          `db:"reference" json:"reference"` // external id, UUID
	WalletID        int64           `db:"wallet_id" json:"wallet_id"`
	Type            TransactionType `db:"type" json:"type"`
	Context         SpendContext    `db:"context" json:"context,omitempty"` // empty for purchase/expiration
	TotalCredits    int64           `db:"total_credits" json:"total_credits"`
	TotalCost       decimal.Decimal `db:"total_cost" json:"total_cost"`
	CreditsShortage int64           `db:"credits_shortage" json:"credits_shortage"`
	InvoiceAmount   decimal.Decimal `db:"invoice_amount" json:"invoice_amount"`
	BatchID         *int64          `db:"batch_id" json:"batch_id,omitempty"`     // set on purchase and expiration
	VacancyID       *int64          `db:"vacancy_id" json:"vacancy_id,omitempty"` // set on spend variants
	ProductIDs      pq.Int64Array   `db:"product_ids" json:"product_ids,omitempty"`
	ActorID         *int64          `db:"actor_id" json:"actor_id,omitempty"` // portal user who triggered the event
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewPurchaseTransaction records the creation of a credit batch.
func NewPurchaseTransaction(walletID int64, batchID int64, credits int64, actorID *int64) *Transaction {
	return &Transaction{
		Reference:    uuid.NewString(),
		WalletID:     walletID,
		Type:         TransactionTypePurchase,
		TotalCredits: credits,
		BatchID:      &batchID,
		ActorID:      actorID,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewSpendTransaction records one logical spend action. The engine may have
// touched several batches internally; the caller still writes a single record
// once the shortage and invoice terms are known.
func NewSpendTransaction(
	walletID int64,
	vacancyID int64,
	context SpendContext,
	totalCredits int64,
	totalCost decimal.Decimal,
	creditsShortage int64,
	invoiceAmount decimal.Decimal,
	productIDs []int64,
	actorID *int64,
) *Transaction {
	return &Transaction{
		Reference:       uuid.NewString(),
		WalletID:        walletID,
		Type:            TransactionTypeSpend,
		Context:         context,
		TotalCredits:    totalCredits,
		TotalCost:       totalCost,
		CreditsShortage: creditsShortage,
		InvoiceAmount:   invoiceAmount,
		VacancyID:       &vacancyID,
		ProductIDs:      pq.Int64Array(productIDs),
		ActorID:         actorID,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewIncludedTransaction records a package-included upsell at zero cost, so
// its time-limited effect can be tracked without charging twice.
func NewIncludedTransaction(walletID, vacancyID, productID int64, actorID *int64) *Transaction {
	return &Transaction{
		Reference:     uuid.NewString(),
		WalletID:      walletID,
		Type:          TransactionTypeSpend,
		Context:       SpendContextIncluded,
		TotalCost:     decimal.Zero,
		InvoiceAmount: decimal.Zero,
		VacancyID:     &vacancyID,
		ProductIDs:    pq.Int64Array{productID},
		ActorID:       actorID,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewExpirationTransaction records credits lost when a batch expired.
func NewExpirationTransaction(walletID, batchID, expiredCredits int64) *Transaction {
	return &Transaction{
		Reference:    uuid.NewString(),
		WalletID:     walletID,
		Type:         TransactionTypeExpiration,
		TotalCredits: expiredCredits,
		BatchID:      &batchID,
		CreatedAt:    time.Now().UTC(),
	}
}
