package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nico-stef/aihack-2025-NeuroCore/adapter/cli"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/app"
	"github.com/nico-stef/aihack-2025-NeuroCore/pkg/config"
	"github.com/nico-stef/aihack-2025-NeuroCore/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logger := observability.NewLogger(logCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetLogger(logger)
	cli.AddCommand(cli.NewServeCommand(cfg, container))
	cli.AddCommand(cli.NewSyncCommand(container))
	cli.AddCommand(cli.NewScoreCommand(container))
	cli.Execute()
}
