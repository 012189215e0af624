package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabapcia/chaintail/internal/config"
	"github.com/gabapcia/chaintail/internal/handlers/cli"
	"github.com/gabapcia/chaintail/internal/pkg/logger"
	"github.com/gabapcia/chaintail/internal/pkg/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chaintail: invalid configuration:", err)
		os.Exit(1)
	}

	if cfg.Telemetry {
		shutdown, err := telemetry.Init(ctx, "chaintail")
		if err != nil {
			fmt.Fprintln(os.Stderr, "chaintail: telemetry init failed:", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	logOpts := []logger.Option{logger.WithLevel(cfg.LogLevel)}
	if cfg.Debug {
		logOpts = []logger.Option{logger.WithLevel("debug"), logger.WithTimestamps()}
	}
	if err := logger.Init(logOpts...); err != nil {
		fmt.Fprintln(os.Stderr, "chaintail: logger init failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cli.Run(ctx, cfg); err != nil {
		logger.Error(ctx, "chaintail terminated", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}
