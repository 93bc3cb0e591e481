// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	walletHandler *handler.WalletHandler,
	vacancyHandler *handler.VacancyHandler,
	catalogHandler *handler.CatalogHandler,
	adminHandler *handler.AdminHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Employer onboarding
	r.Post("/employers", walletHandler.CreateEmployer)

	// Product catalog
	r.Get("/products", catalogHandler.ListProducts)

	// Wallet API routes
	r.Route("/wallets", func(r chi.Router) {
		r.Post("/{walletID}/purchase", walletHandler.Purchase)
		r.Get("/{walletID}/balance", walletHandler.GetWalletBalance)
		r.Get("/{walletID}/transactions", walletHandler.GetTransactionHistory)
	})

	// Vacancy lifecycle routes
	r.Route("/vacancies", func(r chi.Router) {
		r.Post("/", vacancyHandler.CreateVacancy)
		r.Get("/{vacancyID}", vacancyHandler.GetVacancy)
		r.Get("/{vacancyID}/transactions", vacancyHandler.GetVacancyLedger)
		r.Post("/{vacancyID}/submit", vacancyHandler.Submit)
		r.Post("/{vacancyID}/boost", vacancyHandler.Boost)
		r.Post("/{vacancyID}/approve", vacancyHandler.Approve)
		r.Post("/{vacancyID}/reject", vacancyHandler.Reject)
		r.Post("/{vacancyID}/resubmit", vacancyHandler.Resubmit)
		r.Post("/{vacancyID}/depublish", vacancyHandler.Depublish)
	})

	// Maintenance jobs, also runnable via cmd/sweeper
	r.Route("/admin", func(r chi.Router) {
		r.Post("/sweep", adminHandler.Sweep)
		r.Post("/expire-vacancies", adminHandler.ExpireVacancies)
		r.Post("/resync", adminHandler.Resync)
	})

	return r
}
