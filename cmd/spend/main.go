package main

import (
	"context"
	"os"

	"spend/internal/cli"
	"spend/internal/services"
	"spend/internal/shell"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	// Re-apply the level in case it came from .env rather than the
	// process environment.
	logger = cli.SetupLogger(cfg.LogLevel)

	repo := cli.InitSQLite(logger.Logger, cfg.SQLiteDBPath)

	publisher := cli.InitPublisher(logger.Logger, cfg)

	svc := services.NewExpenseService(repo, publisher)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting expense tracker", "db_path", cfg.SQLiteDBPath)
	shell.New(svc, os.Stdin, os.Stdout).Run(context.Background())
}
