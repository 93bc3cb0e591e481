// internal/service/fakes_test.go
package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// fakeStore is an in-memory stand-in for the database, shared by the fake
// repositories. Reads hand out copies the way a row scan would, so a service
// mutating a returned struct never leaks into the store without an explicit
// write.
type fakeStore struct {
	mu sync.Mutex

	nextID       int64
	employers    map[int64]domain.Employer
	wallets      map[int64]domain.Wallet
	batches      map[int64]domain.CreditBatch
	transactions []domain.Transaction
	vacancies    map[int64]domain.Vacancy
	products     map[int64]domain.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employers: make(map[int64]domain.Employer),
		wallets:   make(map[int64]domain.Wallet),
		batches:   make(map[int64]domain.CreditBatch),
		vacancies: make(map[int64]domain.Vacancy),
		products:  make(map[int64]domain.Product),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// seedWallet inserts a wallet with the given balance, mirroring purchases in
// the counters so the conservation invariant holds from the start.
func (s *fakeStore) seedWallet(employerID, balance int64) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := domain.Wallet{
		ID:             s.id(),
		EmployerID:     employerID,
		Balance:        balance,
		TotalPurchased: balance,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	s.wallets[w.ID] = w
	return w
}

// seedBatch inserts a credit batch with full remaining credits.
func (s *fakeStore) seedBatch(walletID, credits int64, createdAt, expiresAt time.Time) domain.CreditBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := domain.CreditBatch{
		ID:        s.id(),
		WalletID:  walletID,
		Amount:    credits,
		Remaining: credits,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}
	s.batches[b.ID] = b
	return b
}

func (s *fakeStore) seedProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = p
	return p
}

func (s *fakeStore) seedVacancy(v domain.Vacancy) domain.Vacancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.id()
	}
	s.vacancies[v.ID] = v
	return v
}

func (s *fakeStore) wallet(id int64) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id]
}

func (s *fakeStore) batch(id int64) domain.CreditBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[id]
}

func (s *fakeStore) vacancy(id int64) domain.Vacancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vacancies[id]
}

func (s *fakeStore) transactionsOf(walletID int64) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range s.transactions {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out
}

// --- repositories ---

type fakeEmployerRepo struct{ store *fakeStore }

func (r *fakeEmployerRepo) CreateEmployer(_ context.Context, _ repository.DBExecutor, employer *domain.Employer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	employer.ID = r.store.id()
	r.store.employers[employer.ID] = *employer
	return nil
}

func (r *fakeEmployerRepo) GetEmployerByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Employer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.employers[id]
	if !ok {
		return nil, util.ErrEmployerNotFound
	}
	return &e, nil
}

type fakeWalletRepo struct{ store *fakeStore }

func (r *fakeWalletRepo) CreateWallet(_ context.Context, _ repository.DBExecutor, wallet *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallet.ID = r.store.id()
	if wallet.Version == 0 {
		wallet.Version = 1
	}
	r.store.wallets[wallet.ID] = *wallet
	return nil
}

func (r *fakeWalletRepo) GetWalletByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, util.ErrWalletNotFound
	}
	return &w, nil
}

func (r *fakeWalletRepo) GetWalletByEmployerID(_ context.Context, _ repository.DBExecutor, employerID int64) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, w := range r.store.wallets {
		if w.EmployerID == employerID {
			w := w
			return &w, nil
		}
	}
	return nil, util.ErrWalletNotFound
}

func (r *fakeWalletRepo) ApplyDelta(_ context.Context, _ repository.DBExecutor, walletID int64, delta repository.WalletDelta, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[walletID]
	if !ok {
		return util.ErrWalletNotFound
	}
	if w.Version != expectedVersion {
		return util.ErrPersistenceConflict
	}
	w.Balance += delta.Balance
	w.TotalPurchased += delta.TotalPurchased
	w.TotalSpent += delta.TotalSpent
	w.Version++
	w.UpdatedAt = time.Now().UTC()
	r.store.wallets[walletID] = w
	return nil
}

type fakeBatchRepo struct{ store *fakeStore }

func (r *fakeBatchRepo) CreateBatch(_ context.Context, _ repository.DBExecutor, batch *domain.CreditBatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	batch.ID = r.store.id()
	r.store.batches[batch.ID] = *batch
	return nil
}

func (r *fakeBatchRepo) GetUsableBatches(_ context.Context, _ repository.DBExecutor, walletID int64, now time.Time) ([]domain.CreditBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.CreditBatch
	for _, b := range r.store.batches {
		if b.WalletID == walletID && b.Usable(now) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeBatchRepo) GetBatchByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.CreditBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.batches[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBatchRepo) UpdateRemaining(_ context.Context, _ repository.DBExecutor, batchID, remaining int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.batches[batchID]
	if !ok {
		return util.ErrNotFound
	}
	b.Remaining = remaining
	r.store.batches[batchID] = b
	return nil
}

func (r *fakeBatchRepo) ListExpired(_ context.Context, _ repository.DBExecutor, now time.Time) ([]domain.CreditBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.CreditBatch
	for _, b := range r.store.batches {
		if b.Expired(now) && b.Remaining > 0 {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTransactionRepo struct{ store *fakeStore }

func (r *fakeTransactionRepo) CreateTransaction(_ context.Context, _ repository.DBExecutor, transaction *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	transaction.ID = r.store.id()
	r.store.transactions = append(r.store.transactions, *transaction)
	return nil
}

func (r *fakeTransactionRepo) GetTransactionsByWalletID(_ context.Context, _ repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []domain.Transaction
	for _, tx := range r.store.transactions {
		if tx.WalletID == walletID {
			all = append(all, tx)
		}
	}
	// newest first
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeTransactionRepo) GetTransactionsByVacancyID(_ context.Context, _ repository.DBExecutor, vacancyID int64) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range r.store.transactions {
		if tx.VacancyID != nil && *tx.VacancyID == vacancyID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeVacancyRepo struct{ store *fakeStore }

func (r *fakeVacancyRepo) CreateVacancy(_ context.Context, _ repository.DBExecutor, vacancy *domain.Vacancy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	vacancy.ID = r.store.id()
	r.store.vacancies[vacancy.ID] = *vacancy
	return nil
}

func (r *fakeVacancyRepo) GetVacancyByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Vacancy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.vacancies[id]
	if !ok {
		return nil, util.ErrVacancyNotFound
	}
	return &v, nil
}

func (r *fakeVacancyRepo) UpdateVacancy(_ context.Context, _ repository.DBExecutor, vacancy *domain.Vacancy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.vacancies[vacancy.ID]; !ok {
		return util.ErrVacancyNotFound
	}
	r.store.vacancies[vacancy.ID] = *vacancy
	return nil
}

func (r *fakeVacancyRepo) ListPublishedPastClosing(_ context.Context, _ repository.DBExecutor, now time.Time) ([]domain.Vacancy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Vacancy
	for _, v := range r.store.vacancies {
		if v.Status == domain.StatusGepubliceerd && v.ClosingDate != nil && v.ClosingDate.Before(now) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVacancyRepo) ListNeedingSync(_ context.Context, _ repository.DBExecutor, limit int) ([]domain.Vacancy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Vacancy
	for _, v := range r.store.vacancies {
		if v.NeedsSync {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVacancyRepo) ClearNeedsSync(_ context.Context, _ repository.DBExecutor, vacancyID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.vacancies[vacancyID]
	if !ok {
		return util.ErrVacancyNotFound
	}
	v.NeedsSync = false
	r.store.vacancies[vacancyID] = v
	return nil
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) GetProductByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, util.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) GetProductsByIDs(_ context.Context, _ repository.DBExecutor, ids []int64) ([]domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListActiveProducts(_ context.Context, _ repository.DBExecutor) ([]domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Product
	for _, p := range r.store.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- transaction plumbing ---

// fakeTxController satisfies db.TxController and repository.DBExecutor. The
// fake repositories never touch the executor, so the query methods are inert.
type fakeTxController struct{}

func (fakeTxController) Commit() error   { return nil }
func (fakeTxController) Rollback() error { return nil }

func (fakeTxController) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}
func (fakeTxController) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}
func (fakeTxController) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (fakeTxController) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func fakeBeginTx(_ context.Context, _ db.DBTxBeginner) (db.TxController, error) {
	return fakeTxController{}, nil
}

func fakeCommitTx(tx db.TxController) error { return tx.Commit() }
func fakeRollbackTx(tx db.TxController)     { _ = tx.Rollback() }

// --- notifier ---

// fakeNotifier records sync events and can be told to fail.
type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	events []int64
}

func (n *fakeNotifier) VacancyChanged(_ context.Context, vacancy *domain.Vacancy) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, vacancy.ID)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// --- wiring helpers ---

type fixture struct {
	store    *fakeStore
	notifier *fakeNotifier
	locks    *WalletLocker
	ledger   LedgerService
	pricing  PricingService
	sweeper  SweeperService
	vacancy  VacancyService
}

func newFixture(t interface{ Helper() }) *fixture {
	t.Helper()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	locks := NewWalletLocker()
	logger := util.GetLogger()

	employerRepo := &fakeEmployerRepo{store: store}
	walletRepo := &fakeWalletRepo{store: store}
	batchRepo := &fakeBatchRepo{store: store}
	transactionRepo := &fakeTransactionRepo{store: store}
	vacancyRepo := &fakeVacancyRepo{store: store}
	productRepo := &fakeProductRepo{store: store}

	ledger := NewLedgerService(
		nil, nil,
		employerRepo, walletRepo, batchRepo, transactionRepo,
		locks, fakeBeginTx, fakeCommitTx, fakeRollbackTx, logger,
	)
	pricing := NewPricingService(nil, productRepo)
	sweeper := NewSweeperService(
		nil, nil,
		walletRepo, batchRepo, transactionRepo,
		locks, fakeBeginTx, fakeCommitTx, fakeRollbackTx, logger,
	)
	vacancy := NewVacancyService(
		nil, nil,
		vacancyRepo, walletRepo, productRepo, transactionRepo,
		ledger, pricing, notifier,
		locks, fakeBeginTx, fakeCommitTx, fakeRollbackTx, logger,
	)

	return &fixture{
		store:    store,
		notifier: notifier,
		locks:    locks,
		ledger:   ledger,
		pricing:  pricing,
		sweeper:  sweeper,
		vacancy:  vacancy,
	}
}
