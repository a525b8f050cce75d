package main

import (
	"context"
	"os"
	"time"

	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/session"
	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	stateDir, err := shared.StateDir()
	if err != nil {
		logger.Fatalf("failed to resolve state directory: %v", err)
	}

	sess := session.NewStore(session.StoreOpts{Dir: stateDir})

	vault := services.NewVaultService(services.VaultOpts{
		BaseURL:         config.Service.BaseURL,
		Tokens:          sess,
		SearchRateLimit: config.Service.SearchRateLimit,
		Timeout:         time.Duration(config.Service.TimeoutSeconds) * time.Second,
	})
	sess.SetGateway(vault)
	sess.Restore()

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Gateway: vault,
		Session: sess,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "snipvault",
		Usage:    "Manage code snippets in your vault from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
