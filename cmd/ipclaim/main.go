package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ipclaim/internal/cli"
	"ipclaim/internal/platform/config/raw"
	"ipclaim/internal/platform/logger"
)

func main() {
	// logs go to stderr and stay quiet unless LOG_LEVEL asks otherwise
	opt := logger.FromEnv()
	opt.Level = raw.New().Prefix("LOG_").Get("LEVEL", "warn")
	opt.Writer = os.Stderr
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
