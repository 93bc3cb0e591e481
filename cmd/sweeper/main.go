// cmd/sweeper/main.go
// One-shot maintenance run, intended for a daily scheduler: sweeps expired
// credit batches, expires overdue vacancies and re-delivers pending sync
// notifications.
package main

import (
	"context"
	"os"
	"time"

	app "github.com/Colourfuljobs/colourful-jobs-sub003/internal"
)

const resyncBatchSize = 500

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		application.Logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			application.Logger.Error("Application shutdown failed", "error", err)
		}
	}()

	exitCode := 0

	report, err := application.SweeperService.SweepExpired(ctx)
	if err != nil {
		application.Logger.Error("Batch sweep failed", "error", err)
		exitCode = 1
	} else {
		application.Logger.Info("Batch sweep finished",
			"processed", report.Processed,
			"failed", report.Failed,
			"expired_credits", report.TotalExpiredCredits)
		if report.Failed > 0 {
			exitCode = 1
		}
	}

	expired, err := application.VacancyService.ExpireOverdue(ctx)
	if err != nil {
		application.Logger.Error("Vacancy expiration failed", "error", err)
		exitCode = 1
	} else {
		application.Logger.Info("Vacancy expiration finished", "expired", expired)
	}

	synced, err := application.VacancyService.ResyncPending(ctx, resyncBatchSize)
	if err != nil {
		application.Logger.Error("Sync reconciliation failed", "error", err)
		exitCode = 1
	} else {
		application.Logger.Info("Sync reconciliation finished", "synced", synced)
	}

	os.Exit(exitCode)
}
