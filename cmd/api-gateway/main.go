package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/cloud-classroom/api/swagger"
	"github.com/noah-isme/cloud-classroom/internal/app"
	"github.com/noah-isme/cloud-classroom/internal/handler"
	"github.com/noah-isme/cloud-classroom/pkg/config"
	"github.com/noah-isme/cloud-classroom/pkg/logger"
)

// @title Cloud Classroom API
// @version 1.0.0
// @description Users, chat, syllabus tracking, announcements and assignment scheduling
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.NewRouter(classroom),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if err := classroom.SaveUsers(shutdownCtx); err != nil {
		logr.Error("failed to save users", zap.Error(err))
	}
	logr.Info("server stopped")
}
