package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/petanque-league/internal/app"
	"github.com/riskibarqy/petanque-league/internal/config"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand(loadRuntime).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "leaguectl: %v\n", err)
		os.Exit(1)
	}
}

// runtime is what every subcommand needs: config, a logger on stderr and the league services.
type runtime struct {
	cfg    config.Config
	logger *logging.Logger
	core   *app.Core
}

type runtimeLoader func(ctx context.Context) (*runtime, error)

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", "leaguectl")
	logging.SetDefault(logger)

	core, err := app.NewCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, core: core}, nil
}
