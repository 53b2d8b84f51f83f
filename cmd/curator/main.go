package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-news-curator/internal/app"
	"github.com/samvad-hq/samvad-news-curator/internal/config"
	"github.com/samvad-hq/samvad-news-curator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "curator start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("curator starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	curator, err := app.NewCurator(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize curator", "error", err)
		return err
	}
	defer func() {
		if err := curator.Close(); err != nil {
			logger.ErrorObj("curator shutdown incomplete", "error", err.Error())
		}
	}()

	if err := curator.Run(ctx); err != nil {
		return fmt.Errorf("curator run: %w", err)
	}

	return nil
}
