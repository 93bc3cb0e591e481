// cmd/migrate/main.go
// Applies the embedded schema migrations. Usage: migrate [up|down|status|redo]
package main

import (
	"context"
	"os"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/config"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository/postgres"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

func main() {
	util.InitLogger()
	logger := util.GetLogger()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(context.Background(), cfg.DB.DSN(), command); err != nil {
		logger.Error("Migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	logger.Info("Migration finished", "command", command)
}
