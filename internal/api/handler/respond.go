// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// DefaultTimeout bounds the handling of a single HTTP request.
const DefaultTimeout = 30 * time.Second

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors onto HTTP status codes. Validation
// and transition errors carry their message through; anything unmapped is a
// 500 with a generic body.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var insufficientErr *util.InsufficientCreditsError
	var transitionErr *util.InvalidTransitionError

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &transitionErr):
		statusCode = http.StatusConflict
		message = transitionErr.Error()
	case errors.As(err, &insufficientErr):
		// 402 Payment Required: the wallet cannot cover this action.
		statusCode = http.StatusPaymentRequired
		message = insufficientErr.Error()
	case util.IsError(err, util.ErrAlreadyProcessed):
		statusCode = http.StatusConflict
		message = "Request was already processed"
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrWalletNotFound),
		util.IsError(err, util.ErrEmployerNotFound),
		util.IsError(err, util.ErrVacancyNotFound),
		util.IsError(err, util.ErrProductNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}
