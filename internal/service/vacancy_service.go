// internal/service/vacancy_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/metrics"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/notify"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// maxPublicationDays caps how far a closing date may lie past the first
// publication, boosts included.
const maxPublicationDays = 365

// CreateVacancyParams carries the fields of a new draft vacancy.
type CreateVacancyParams struct {
	EmployerID  int64
	Title       string
	Description string
	DocumentURL string
	InputMode   domain.InputMode
	PackageID   *int64
	UpsellIDs   []int64
}

// SubmitResult reports the ledger outcome of a vacancy submission.
type SubmitResult struct {
	Vacancy         *domain.Vacancy
	TotalCredits    int64
	CreditsConsumed int64
	CreditsShortage int64
	InvoiceAmount   decimal.Decimal
}

// VacancyService is the vacancy state machine. Every status transition goes
// through these operations; ledger-coupled transitions are all-or-nothing
// from the caller's perspective.
type VacancyService interface {
	CreateVacancy(ctx context.Context, params CreateVacancyParams) (*domain.Vacancy, error)
	GetVacancy(ctx context.Context, id int64) (*domain.Vacancy, error)
	// GetVacancyLedger returns every ledger record tied to a vacancy,
	// oldest first: the submission spend, included upsells, boosts, renewals.
	GetVacancyLedger(ctx context.Context, id int64) ([]domain.Transaction, error)

	// Submit moves a concept vacancy into review, spending credits and
	// invoicing any shortage proportionally.
	Submit(ctx context.Context, vacancyID int64, actorID *int64, invoice *domain.InvoiceDetails) (*SubmitResult, error)
	// Boost spends credits on extra upsells and/or a closing-date extension.
	// Boosts never fall back to invoicing; the wallet must cover the full
	// amount. Boosting an expired or depublished vacancy republishes it.
	Boost(ctx context.Context, vacancyID int64, actorID *int64, upsellIDs []int64, extendClosingTo *time.Time) (*domain.Vacancy, error)
	// Approve publishes a vacancy that passed review.
	Approve(ctx context.Context, vacancyID int64) (*domain.Vacancy, error)
	// Reject sends a vacancy in review back for fixes.
	Reject(ctx context.Context, vacancyID int64) (*domain.Vacancy, error)
	// Resubmit re-enters review after fixes, without any ledger effect.
	Resubmit(ctx context.Context, vacancyID int64) (*domain.Vacancy, error)
	// Depublish manually takes a published vacancy offline. No ledger effect.
	Depublish(ctx context.Context, vacancyID int64) (*domain.Vacancy, error)

	// ExpireOverdue flips published vacancies whose closing date has passed
	// to verlopen. Run daily; read paths derive the same answer in the
	// meantime.
	ExpireOverdue(ctx context.Context) (int, error)
	// ResyncPending re-notifies vacancies still flagged needs_sync and
	// clears the flag on success.
	ResyncPending(ctx context.Context, limit int) (int, error)
}

type vacancyService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	vacancyRepo repository.VacancyRepository
	walletRepo  repository.WalletRepository
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	ledger      LedgerService
	pricing     PricingService
	notifier    notify.Notifier
	locks       *WalletLocker
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	logger      *slog.Logger
}

// NewVacancyService creates a new instance of VacancyService.
func NewVacancyService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	vacancyRepo repository.VacancyRepository,
	walletRepo repository.WalletRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	ledger LedgerService,
	pricing PricingService,
	notifier notify.Notifier,
	locks *WalletLocker,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) VacancyService {
	return &vacancyService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		vacancyRepo: vacancyRepo,
		walletRepo:  walletRepo,
		productRepo: productRepo,
		txRepo:      txRepo,
		ledger:      ledger,
		pricing:     pricing,
		notifier:    notifier,
		locks:       locks,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		logger:      logger,
	}
}

// CreateVacancy stores a new draft. concept is the only state reachable on
// creation.
func (s *vacancyService) CreateVacancy(ctx context.Context, params CreateVacancyParams) (*domain.Vacancy, error) {
	if params.Title == "" {
		return nil, util.NewValidationError("title", "required field is missing")
	}
	if params.InputMode != domain.InputModeTekst && params.InputMode != domain.InputModeUpload {
		return nil, util.NewValidationError("input_mode", "must be tekst or upload")
	}

	vacancy := domain.NewVacancy(params.EmployerID, params.Title, params.InputMode)
	vacancy.Description = params.Description
	vacancy.DocumentURL = params.DocumentURL
	vacancy.PackageID = params.PackageID
	vacancy.SelectedUpsells = params.UpsellIDs

	if err := s.vacancyRepo.CreateVacancy(ctx, s.dbExecutor, vacancy); err != nil {
		return nil, fmt.Errorf("create vacancy: %w", err)
	}
	return vacancy, nil
}

// GetVacancy returns the vacancy with its read-time effective status: a
// published vacancy past its closing date reads as verlopen before the
// daily job has flipped it.
func (s *vacancyService) GetVacancy(ctx context.Context, id int64) (*domain.Vacancy, error) {
	vacancy, err := s.vacancyRepo.GetVacancyByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get vacancy: %w", err)
	}
	vacancy.Status = vacancy.EffectiveStatus(time.Now().UTC())
	return vacancy, nil
}

// GetVacancyLedger returns the vacancy's ledger records oldest first.
func (s *vacancyService) GetVacancyLedger(ctx context.Context, id int64) ([]domain.Transaction, error) {
	if _, err := s.vacancyRepo.GetVacancyByID(ctx, s.dbExecutor, id); err != nil {
		return nil, fmt.Errorf("vacancy ledger: %w", err)
	}
	transactions, err := s.txRepo.GetTransactionsByVacancyID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("vacancy ledger: %w", err)
	}
	return transactions, nil
}

// Submit validates the vacancy, resolves its price, spends what the wallet
// can cover and invoices the shortage. Exactly one spend transaction is
// written no matter how many batches were touched, plus one zero-cost
// included transaction per package-bundled upsell. If any step fails the
// vacancy stays concept and no transaction is persisted.
func (s *vacancyService) Submit(ctx context.Context, vacancyID int64, actorID *int64, invoice *domain.InvoiceDetails) (*SubmitResult, error) {
	vacancy, err := s.vacancyRepo.GetVacancyByID(ctx, s.dbExecutor, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	// A resubmission of a vacancy already past concept is rejected before
	// any ledger call is made.
	if vacancy.Status != domain.StatusConcept {
		return nil, &util.InvalidTransitionError{
			From: string(vacancy.Status), To: string(domain.StatusWachtOpKeuring),
		}
	}
	if err := vacancy.ValidateForSubmission(); err != nil {
		return nil, err
	}

	quote, err := s.pricing.Resolve(ctx, *vacancy.PackageID, vacancy.SelectedUpsells)
	if err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.GetWalletByEmployerID(ctx, s.dbExecutor, vacancy.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	unlock := s.locks.Lock(wallet.ID)
	defer unlock()

	var result *SubmitResult
	err = withConflictRetry(ctx, func(ctx context.Context) error {
		txController, err := s.beginTx(ctx, s.dbBeginner)
		if err != nil {
			return fmt.Errorf("submit: failed to begin transaction: %w", err)
		}
		defer s.rollbackTx(txController)

		txExecutor, ok := txController.(repository.DBExecutor)
		if !ok {
			return fmt.Errorf("submit: transaction controller does not implement DBExecutor")
		}

		// Re-read the vacancy under the lock and re-check the state-machine
		// guard: a concurrent submit that won the lock has already moved the
		// vacancy past concept, and a second spend for the same publication
		// must never be written.
		vacancy, err = s.vacancyRepo.GetVacancyByID(ctx, txExecutor, vacancyID)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		if vacancy.Status != domain.StatusConcept {
			return &util.InvalidTransitionError{
				From: string(vacancy.Status), To: string(domain.StatusWachtOpKeuring),
			}
		}

		// Re-read the wallet under the lock; the pre-read above was only for
		// locating the wallet id.
		wallet, err = s.walletRepo.GetWalletByID(ctx, txExecutor, wallet.ID)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}

		shortage := quote.TotalCredits - wallet.Balance
		if shortage < 0 {
			shortage = 0
		}
		// Invoice details become mandatory the moment the balance cannot
		// cover the submission. Checked before any write.
		if shortage > 0 {
			if err := invoice.Validate(); err != nil {
				return err
			}
		}

		spendRes, err := s.ledger.SpendWithin(ctx, txExecutor, wallet, quote.TotalCredits)
		if err != nil {
			return err
		}
		if spendRes.Shortage > shortage {
			// The batches held fewer credits than the balance promised: the
			// extra shortage was never invoice-validated. Roll back rather
			// than bill against details nobody checked.
			return fmt.Errorf("submit: batches held %d credits fewer than wallet balance", spendRes.Shortage-shortage)
		}

		invoiceAmount := proportionalInvoice(quote.TotalPrice, spendRes.Shortage, quote.TotalCredits)

		transaction := domain.NewSpendTransaction(
			wallet.ID, vacancy.ID, domain.SpendContextVacancy,
			quote.TotalCredits, quote.TotalPrice,
			spendRes.Shortage, invoiceAmount,
			quote.ProductIDs, actorID,
		)
		if err := s.txRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
			return fmt.Errorf("submit: failed to create spend transaction: %w", err)
		}

		// One zero-cost record per included upsell, so their time-limited
		// effects stay trackable without a second charge.
		for _, includedID := range quote.IncludedUpsellIDs {
			included := domain.NewIncludedTransaction(wallet.ID, vacancy.ID, includedID, actorID)
			if err := s.txRepo.CreateTransaction(ctx, txExecutor, included); err != nil {
				return fmt.Errorf("submit: failed to create included transaction: %w", err)
			}
		}

		now := time.Now().UTC()
		vacancy.Status = domain.StatusWachtOpKeuring
		vacancy.SubmittedAt = &now
		vacancy.CreditsSpent += quote.TotalCredits
		vacancy.Featured = vacancy.Featured || quote.Featured
		vacancy.SameDay = vacancy.SameDay || quote.SameDay
		vacancy.NeedsSync = true
		if err := s.vacancyRepo.UpdateVacancy(ctx, txExecutor, vacancy); err != nil {
			return fmt.Errorf("submit: failed to update vacancy: %w", err)
		}

		if err := s.commitTx(txController); err != nil {
			return fmt.Errorf("submit: failed to commit transaction: %w", err)
		}

		result = &SubmitResult{
			Vacancy:         vacancy,
			TotalCredits:    quote.TotalCredits,
			CreditsConsumed: spendRes.Consumed,
			CreditsShortage: spendRes.Shortage,
			InvoiceAmount:   invoiceAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VacancyTransitions.WithLabelValues(string(domain.StatusWachtOpKeuring)).Inc()
	s.logger.Info("vacancy submitted",
		"vacancy_id", vacancy.ID, "total_credits", result.TotalCredits,
		"consumed", result.CreditsConsumed, "shortage", result.CreditsShortage)
	s.notifyAsync(vacancy)

	return result, nil
}

// Boost spends the full amount on extra upsells and/or extends the closing
// date. A boost of an expired or depublished vacancy republishes it and
// stamps a fresh last-published-at marker.
func (s *vacancyService) Boost(ctx context.Context, vacancyID int64, actorID *int64, upsellIDs []int64, extendClosingTo *time.Time) (*domain.Vacancy, error) {
	vacancy, err := s.vacancyRepo.GetVacancyByID(ctx, s.dbExecutor, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("boost: %w", err)
	}

	switch vacancy.Status {
	case domain.StatusGepubliceerd, domain.StatusVerlopen, domain.StatusGedepubliceerd:
	default:
		return nil, &util.InvalidTransitionError{
			From: string(vacancy.Status), To: string(domain.StatusGepubliceerd),
		}
	}
	if len(upsellIDs) == 0 && extendClosingTo == nil {
		return nil, util.NewValidationError("upsell_ids", "a boost needs upsells or a closing-date extension")
	}

	if extendClosingTo != nil {
		if err := s.validateExtension(ctx, vacancy, *extendClosingTo); err != nil {
			return nil, err
		}
	}

	quote, err := s.pricing.ResolveUpsells(ctx, upsellIDs)
	if err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.GetWalletByEmployerID(ctx, s.dbExecutor, vacancy.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("boost: %w", err)
	}

	unlock := s.locks.Lock(wallet.ID)
	defer unlock()

	var republish bool
	var spendContext domain.SpendContext
	err = withConflictRetry(ctx, func(ctx context.Context) error {
		txController, err := s.beginTx(ctx, s.dbBeginner)
		if err != nil {
			return fmt.Errorf("boost: failed to begin transaction: %w", err)
		}
		defer s.rollbackTx(txController)

		txExecutor, ok := txController.(repository.DBExecutor)
		if !ok {
			return fmt.Errorf("boost: transaction controller does not implement DBExecutor")
		}

		// Re-read under the lock so the republish/context decision is made
		// against the committed status, not the pre-lock read.
		vacancy, err = s.vacancyRepo.GetVacancyByID(ctx, txExecutor, vacancyID)
		if err != nil {
			return fmt.Errorf("boost: %w", err)
		}
		switch vacancy.Status {
		case domain.StatusGepubliceerd, domain.StatusVerlopen, domain.StatusGedepubliceerd:
		default:
			return &util.InvalidTransitionError{
				From: string(vacancy.Status), To: string(domain.StatusGepubliceerd),
			}
		}

		// Republication from a terminal-ish state is a renewal; boosting a
		// still-published vacancy is a plain boost.
		republish = vacancy.Status == domain.StatusVerlopen || vacancy.Status == domain.StatusGedepubliceerd
		spendContext = domain.SpendContextBoost
		if republish {
			spendContext = domain.SpendContextRenew
		}

		wallet, err = s.walletRepo.GetWalletByID(ctx, txExecutor, wallet.ID)
		if err != nil {
			return fmt.Errorf("boost: %w", err)
		}

		// Boosts never fall back to invoicing.
		if wallet.Balance < quote.TotalCredits {
			return &util.InsufficientCreditsError{
				Required:  quote.TotalCredits,
				Available: wallet.Balance,
			}
		}

		spendRes, err := s.ledger.SpendWithin(ctx, txExecutor, wallet, quote.TotalCredits)
		if err != nil {
			return err
		}
		if spendRes.Shortage > 0 {
			// Balance covered the amount but the batches did not: the ledger
			// is inconsistent. Roll back rather than publish on a bad spend.
			return fmt.Errorf("boost: batches held %d credits fewer than wallet balance", spendRes.Shortage)
		}

		transaction := domain.NewSpendTransaction(
			wallet.ID, vacancy.ID, spendContext,
			quote.TotalCredits, quote.TotalPrice,
			0, decimal.Zero,
			quote.ProductIDs, actorID,
		)
		if err := s.txRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
			return fmt.Errorf("boost: failed to create spend transaction: %w", err)
		}

		now := time.Now().UTC()
		vacancy.SelectedUpsells = append(vacancy.SelectedUpsells, upsellIDs...)
		vacancy.CreditsSpent += quote.TotalCredits
		vacancy.Featured = vacancy.Featured || quote.Featured
		vacancy.SameDay = vacancy.SameDay || quote.SameDay
		if extendClosingTo != nil {
			vacancy.ClosingDate = extendClosingTo
		}
		if republish {
			vacancy.Status = domain.StatusGepubliceerd
			vacancy.LastPublishedAt = &now
			vacancy.DepublishedAt = nil
		}
		vacancy.NeedsSync = true
		if err := s.vacancyRepo.UpdateVacancy(ctx, txExecutor, vacancy); err != nil {
			return fmt.Errorf("boost: failed to update vacancy: %w", err)
		}

		if err := s.commitTx(txController); err != nil {
			return fmt.Errorf("boost: failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if republish {
		metrics.VacancyTransitions.WithLabelValues(string(domain.StatusGepubliceerd)).Inc()
	}
	s.logger.Info("vacancy boosted",
		"vacancy_id", vacancy.ID, "credits", quote.TotalCredits,
		"context", string(spendContext))
	s.notifyAsync(vacancy)

	return vacancy, nil
}

// validateExtension checks a requested closing-date extension against the
// 365-day ceiling measured from first publication.
func (s *vacancyService) validateExtension(ctx context.Context, vacancy *domain.Vacancy, extendTo time.Time) error {
	if vacancy.FirstPublishedAt == nil {
		return util.NewValidationError("closing_date", "vacancy was never published")
	}
	if vacancy.ClosingDate != nil && !extendTo.After(*vacancy.ClosingDate) {
		return util.NewValidationError("closing_date", "extension must move the closing date forward")
	}
	ceiling := vacancy.FirstPublishedAt.AddDate(0, 0, maxPublicationDays)
	if extendTo.After(ceiling) {
		return util.NewValidationError("closing_date", "extension exceeds the 365-day publication ceiling")
	}

	if vacancy.PackageID != nil {
		pkg, err := s.productRepo.GetProductByID(ctx, s.dbExecutor, *vacancy.PackageID)
		if err != nil {
			return fmt.Errorf("boost: failed to load package: %w", err)
		}
		if pkg.DurationDays >= maxPublicationDays {
			return util.NewValidationError("closing_date", "package duration already equals the publication ceiling")
		}
	}
	return nil
}

// Approve publishes a vacancy that passed review. First publication derives
// the closing date from the package's base duration when none is set.
func (s *vacancyService) Approve(ctx context.Context, vacancyID int64) (*domain.Vacancy, error) {
	return s.transition(ctx, vacancyID, domain.StatusGepubliceerd, func(vacancy *domain.Vacancy, now time.Time) error {
		vacancy.LastPublishedAt = &now
		if vacancy.FirstPublishedAt == nil {
			vacancy.FirstPublishedAt = &now
		}
		if vacancy.ClosingDate == nil && vacancy.PackageID != nil {
			pkg, err := s.productRepo.GetProductByID(ctx, s.dbExecutor, *vacancy.PackageID)
			if err != nil {
				return fmt.Errorf("approve: failed to load package: %w", err)
			}
			if pkg.DurationDays > 0 {
				closing := now.AddDate(0, 0, pkg.DurationDays)
				vacancy.ClosingDate = &closing
			}
		}
		return nil
	})
}

// Reject sends a vacancy in review back for fixes. The credits spent at
// submission stay spent.
func (s *vacancyService) Reject(ctx context.Context, vacancyID int64) (*domain.Vacancy, error) {
	return s.transition(ctx, vacancyID, domain.StatusIncompleet, nil)
}

// Resubmit re-enters review after fixes, without touching the ledger.
func (s *vacancyService) Resubmit(ctx context.Context, vacancyID int64) (*domain.Vacancy, error) {
	return s.transition(ctx, vacancyID, domain.StatusWachtOpKeuring, func(vacancy *domain.Vacancy, now time.Time) error {
		vacancy.SubmittedAt = &now
		return nil
	})
}

// Depublish manually takes a published vacancy offline.
func (s *vacancyService) Depublish(ctx context.Context, vacancyID int64) (*domain.Vacancy, error) {
	return s.transition(ctx, vacancyID, domain.StatusGedepubliceerd, func(vacancy *domain.Vacancy, now time.Time) error {
		vacancy.DepublishedAt = &now
		return nil
	})
}

// transition applies a ledger-free status change guarded by the state
// machine, plus an optional stamp function.
func (s *vacancyService) transition(ctx context.Context, vacancyID int64, to domain.VacancyStatus, stamp func(*domain.Vacancy, time.Time) error) (*domain.Vacancy, error) {
	vacancy, err := s.vacancyRepo.GetVacancyByID(ctx, s.dbExecutor, vacancyID)
	if err != nil {
		return nil, err
	}
	if vacancy.Status == to || !domain.CanTransition(vacancy.Status, to) {
		return nil, &util.InvalidTransitionError{From: string(vacancy.Status), To: string(to)}
	}

	now := time.Now().UTC()
	vacancy.Status = to
	vacancy.NeedsSync = true
	if stamp != nil {
		if err := stamp(vacancy, now); err != nil {
			return nil, err
		}
	}
	if err := s.vacancyRepo.UpdateVacancy(ctx, s.dbExecutor, vacancy); err != nil {
		return nil, err
	}

	metrics.VacancyTransitions.WithLabelValues(string(to)).Inc()
	s.notifyAsync(vacancy)
	return vacancy, nil
}

// ExpireOverdue flips published vacancies past their closing date to
// verlopen. Credits were already spent at submission, so there is no ledger
// effect.
func (s *vacancyService) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	overdue, err := s.vacancyRepo.ListPublishedPastClosing(ctx, s.dbExecutor, now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue: %w", err)
	}

	expired := 0
	for i := range overdue {
		vacancy := &overdue[i]
		vacancy.Status = domain.StatusVerlopen
		vacancy.NeedsSync = true
		if err := s.vacancyRepo.UpdateVacancy(ctx, s.dbExecutor, vacancy); err != nil {
			s.logger.Error("failed to expire vacancy", "vacancy_id", vacancy.ID, "error", err)
			continue
		}
		expired++
		metrics.VacancyTransitions.WithLabelValues(string(domain.StatusVerlopen)).Inc()
		s.notifyAsync(vacancy)
	}
	return expired, nil
}

// ResyncPending re-notifies vacancies still flagged needs_sync, clearing the
// flag only when delivery succeeded.
func (s *vacancyService) ResyncPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.vacancyRepo.ListNeedingSync(ctx, s.dbExecutor, limit)
	if err != nil {
		return 0, fmt.Errorf("resync: %w", err)
	}

	synced := 0
	for i := range pending {
		vacancy := &pending[i]
		if err := s.notifier.VacancyChanged(ctx, vacancy); err != nil {
			metrics.SyncFailures.Inc()
			s.logger.Warn("resync notification failed", "vacancy_id", vacancy.ID, "error", err)
			continue
		}
		if err := s.vacancyRepo.ClearNeedsSync(ctx, s.dbExecutor, vacancy.ID); err != nil {
			s.logger.Error("failed to clear sync flag", "vacancy_id", vacancy.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

// notifyAsync fires the sync notification in the background. Failures are
// logged and left to the reconciliation sweep; they never fail the
// operation that triggered them.
func (s *vacancyService) notifyAsync(vacancy *domain.Vacancy) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.VacancyChanged(ctx, vacancy); err != nil {
			metrics.SyncFailures.Inc()
			s.logger.Warn("sync notification failed, left for reconciliation",
				"vacancy_id", vacancy.ID, "error", err)
			return
		}
		if err := s.vacancyRepo.ClearNeedsSync(ctx, s.dbExecutor, vacancy.ID); err != nil {
			s.logger.Error("failed to clear sync flag", "vacancy_id", vacancy.ID, "error", err)
		}
	}()
}

// proportionalInvoice computes the invoiced part of the price:
// round(shortage / totalCredits * totalPrice) to whole cents.
func proportionalInvoice(totalPrice decimal.Decimal, shortage, totalCredits int64) decimal.Decimal {
	if shortage <= 0 || totalCredits <= 0 {
		return decimal.Zero
	}
	return totalPrice.
		Mul(decimal.NewFromInt(shortage)).
		Div(decimal.NewFromInt(totalCredits)).
		Round(2)
}
