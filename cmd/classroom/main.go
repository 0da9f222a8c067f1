package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/app"
	"github.com/noah-isme/cloud-classroom/internal/console"
	"github.com/noah-isme/cloud-classroom/pkg/config"
	"github.com/noah-isme/cloud-classroom/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classroom, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to start classroom", zap.Error(err))
	}
	defer classroom.Close() //nolint:errcheck

	if cfg.Data.SeedSample {
		if err := classroom.Seed(ctx); err != nil {
			logr.Fatal("failed to seed sample data", zap.Error(err))
		}
	}
	if err := classroom.LoadUsers(ctx); err != nil {
		logr.Error("failed to load users", zap.Error(err))
	}

	shell := console.New(classroom, os.Stdin, os.Stdout).WithTerminal(int(os.Stdin.Fd()))
	if err := shell.Run(ctx); err != nil {
		logr.Warn("console stopped", zap.Error(err))
	}

	if err := classroom.SaveUsers(context.Background()); err != nil {
		logr.Error("failed to save users", zap.Error(err))
	}
}
