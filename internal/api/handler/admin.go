// internal/api/handler/admin.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/service"
)

// AdminHandler exposes the maintenance jobs over HTTP so an operator can
// trigger them outside the daily schedule.
type AdminHandler struct {
	sweeper   service.SweeperService
	vacancies service.VacancyService
	logger    *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sweeper service.SweeperService, vacancies service.VacancyService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		sweeper:   sweeper,
		vacancies: vacancies,
		logger:    logger,
	}
}

// Sweep runs the batch expiration sweep and reports the outcome.
// POST /admin/sweep
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.SweepExpired(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, report)
}

// ExpireVacancies flips published vacancies past their closing date.
// POST /admin/expire-vacancies
func (h *AdminHandler) ExpireVacancies(w http.ResponseWriter, r *http.Request) {
	expired, err := h.vacancies.ExpireOverdue(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]int{"expired": expired})
}

// Resync re-delivers pending sync notifications.
// POST /admin/resync
func (h *AdminHandler) Resync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.vacancies.ResyncPending(r.Context(), 100)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]int{"synced": synced})
}
