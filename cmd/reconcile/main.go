// Command reconcile runs the ledger audit once and prints the report as JSON.
// It exits with status 1 when drift is found.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/config"
	"github.com/refbonus/refbonus-api/internal/domain/reconcile"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	report, err := reconcile.NewService(reconcile.NewRepository(db)).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	if !report.Clean() {
		database.ClosePostgres(db)
		os.Exit(1)
	}
}
