// internal/api/handler/vacancy.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/idempotency"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/service"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// VacancyHandler handles HTTP requests for the vacancy lifecycle.
type VacancyHandler struct {
	service service.VacancyService
	idem    idempotency.Store
	logger  *slog.Logger
}

// NewVacancyHandler creates a new VacancyHandler.
func NewVacancyHandler(svc service.VacancyService, idem idempotency.Store, logger *slog.Logger) *VacancyHandler {
	return &VacancyHandler{
		service: svc,
		idem:    idem,
		logger:  logger,
	}
}

func (h *VacancyHandler) vacancyID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "vacancyID"), 10, 64)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// CreateVacancyRequest represents the request body for draft creation.
type CreateVacancyRequest struct {
	EmployerID  int64   `json:"employer_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	DocumentURL string  `json:"document_url,omitempty"`
	InputMode   string  `json:"input_mode"`
	PackageID   *int64  `json:"package_id,omitempty"`
	UpsellIDs   []int64 `json:"upsell_ids,omitempty"`
}

// CreateVacancy handles draft creation.
// POST /vacancies
func (h *VacancyHandler) CreateVacancy(w http.ResponseWriter, r *http.Request) {
	var req CreateVacancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	vacancy, err := h.service.CreateVacancy(r.Context(), service.CreateVacancyParams{
		EmployerID:  req.EmployerID,
		Title:       req.Title,
		Description: req.Description,
		DocumentURL: req.DocumentURL,
		InputMode:   domain.InputMode(req.InputMode),
		PackageID:   req.PackageID,
		UpsellIDs:   req.UpsellIDs,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, vacancy)
}

// GetVacancy handles the single-vacancy read, serving the effective status.
// GET /vacancies/{vacancyID}
func (h *VacancyHandler) GetVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := h.vacancyID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	vacancy, err := h.service.GetVacancy(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, vacancy)
}

// GetVacancyLedger handles the per-vacancy ledger view, oldest record first.
// GET /vacancies/{vacancyID}/transactions
func (h *VacancyHandler) GetVacancyLedger(w http.ResponseWriter, r *http.Request) {
	id, err := h.vacancyID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	transactions, err := h.service.GetVacancyLedger(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"vacancy_id":   id,
		"transactions": transactions,
	})
}

// SubmitRequest represents the request body for a submission. Invoice details
// are required only when the wallet cannot cover the full price.
type SubmitRequest struct {
	ActorID        *int64                 `json:"actor_id,omitempty"`
	InvoiceDetails *domain.InvoiceDetails `json:"invoice_details,omitempty"`
}

// Submit handles vacancy submission for review.
// POST /vacancies/{vacancyID}/submit
func (h *VacancyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := h.vacancyID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := claimIdempotencyKey(r, h.idem); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.service.Submit(r.Context(), id, req.ActorID, req.InvoiceDetails)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"vacancy":          result.Vacancy,
		"total_credits":    result.TotalCredits,
		"credits_consumed": result.CreditsConsumed,
		"credits_shortage": result.CreditsShortage,
		"invoice_amount":   result.InvoiceAmount,
	})
}

// BoostRequest represents the request body for a boost.
type BoostRequest struct {
	ActorID         *int64     `json:"actor_id,omitempty"`
	UpsellIDs       []int64    `json:"upsell_ids,omitempty"`
	ExtendClosingTo *time.Time `json:"extend_closing_to,omitempty"`
}

// Boost handles upsell purchases and closing-date extensions for published,
// expired or depublished vacancies.
// POST /vacancies/{vacancyID}/boost
func (h *VacancyHandler) Boost(w http.ResponseWriter, r *http.Request) {
	id, err := h.vacancyID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := claimIdempotencyKey(r, h.idem); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req BoostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	vacancy, err := h.service.Boost(r.Context(), id, req.ActorID, req.UpsellIDs, req.ExtendClosingTo)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, vacancy)
}

// Approve handles review approval.
// POST /vacancies/{vacancyID}/approve
func (h *VacancyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Approve)
}

// Reject handles review rejection.
// POST /vacancies/{vacancyID}/reject
func (h *VacancyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Reject)
}

// Resubmit handles re-entry into review after fixes.
// POST /vacancies/{vacancyID}/resubmit
func (h *VacancyHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Resubmit)
}

// Depublish handles manually taking a vacancy offline.
// POST /vacancies/{vacancyID}/depublish
func (h *VacancyHandler) Depublish(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Depublish)
}

func (h *VacancyHandler) statusChange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (*domain.Vacancy, error)) {
	id, err := h.vacancyID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	vacancy, err := op(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, vacancy)
}
