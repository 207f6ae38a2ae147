package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/incidesk/internal/app"
	"github.com/samvad-hq/incidesk/internal/config"
	"github.com/samvad-hq/incidesk/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "incidesk: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (*app.Console, error) {
		return app.NewConsole(ctx, cfg, nil, log)
	}
	root, closeConsole := newRootCmd(open)
	defer func() {
		if err := closeConsole(); err != nil {
			log.WarnObj("close console", "error", err.Error())
		}
	}()
	return root.ExecuteContext(ctx)
}
