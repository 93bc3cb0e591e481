// internal/api/handler/wallet.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/api/types"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/idempotency"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/service"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// idempotencyTTL is how long a processed Idempotency-Key stays claimed.
const idempotencyTTL = 24 * time.Hour

// WalletHandler handles HTTP requests for employers and their credit
// wallets.
type WalletHandler struct {
	service service.LedgerService
	idem    idempotency.Store
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.LedgerService, idem idempotency.Store, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		idem:    idem,
		logger:  logger,
	}
}

// claimIdempotencyKey enforces the Idempotency-Key header when present. It
// returns util.ErrAlreadyProcessed for a repeated key.
func (h *WalletHandler) claimIdempotencyKey(r *http.Request) error {
	return claimIdempotencyKey(r, h.idem)
}

func claimIdempotencyKey(r *http.Request, store idempotency.Store) error {
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		return nil
	}
	fresh, err := store.Claim(r.Context(), r.Method+" "+r.URL.Path+" "+key, idempotencyTTL)
	if err != nil {
		return err
	}
	if !fresh {
		return util.ErrAlreadyProcessed
	}
	return nil
}

// CreateEmployerRequest represents the request body for employer creation.
type CreateEmployerRequest struct {
	Name string `json:"name"`
}

// CreateEmployer handles employer onboarding. A wallet with zero balance is
// created alongside the employer.
// POST /employers
func (h *WalletHandler) CreateEmployer(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	employer, wallet, err := h.service.CreateEmployer(r.Context(), req.Name)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"employer": employer,
		"wallet":   wallet,
	})
}

// PurchaseRequest represents the request body for a credit purchase.
type PurchaseRequest struct {
	Credits        int64  `json:"credits"`
	ValidityMonths int    `json:"validity_months"`
	ActorID        *int64 `json:"actor_id,omitempty"`
}

// Purchase handles a prepaid credit purchase, creating a batch and a
// purchase transaction.
// POST /wallets/{walletID}/purchase
func (h *WalletHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	if err := h.claimIdempotencyKey(r); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	batch, wallet, err := h.service.Purchase(r.Context(), walletID, req.Credits, req.ValidityMonths, req.ActorID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":     "Purchase successful",
		"wallet_id":   wallet.ID,
		"new_balance": wallet.Balance,
		"batch_id":    batch.ID,
		"expires_at":  batch.ExpiresAt,
	})
}

// GetWalletBalance handles the balance inquiry request.
// GET /wallets/{walletID}/balance
func (h *WalletHandler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	wallet, err := h.service.GetBalance(r.Context(), walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"wallet_id":       wallet.ID,
		"balance":         wallet.Balance,
		"total_purchased": wallet.TotalPurchased,
		"total_spent":     wallet.TotalSpent,
	})
}

// GetTransactionHistory handles the transaction history request.
// GET /wallets/{walletID}/transactions?limit=10&offset=0
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	limit := 10
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	transactions, totalCount, err := h.service.GetTransactionHistory(r.Context(), walletID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
