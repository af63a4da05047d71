package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ITAM-backend/internal/app"
	"ITAM-backend/internal/platform/db"
	"ITAM-backend/internal/platform/logger"
	"ITAM-backend/internal/platform/telemetry"
)

// @title                      ITAM Backend API
// @version                    1.0
// @description                IT asset registry and transfer workflow.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// .env は任意
	_ = godotenv.Load()

	path := "config/config.yaml"
	if v := os.Getenv("ITAM_CONFIG"); v != "" {
		path = v
	}
	flag.StringVar(&path, "config", path, "path to config.yaml")
	flag.Parse()

	// 設定読み込み
	cfg, err := db.LoadConfig(path)
	if err != nil {
		logger.Init("itam", "info")
		logger.Log.WithError(err).Fatal("config error")
	}
	logger.Init("itam", cfg.Log.Level)
	logger.Log.WithField("mode", cfg.Mode).WithField("version", cfg.Version).Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, cfg.Telemetry)

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("startup failed")
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Log.Infof("listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			logger.Log.Infof("listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Log.Info("shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Log.WithError(err).Error("shutdown error")
	}
	if err := shutdownTracing(sctx); err != nil {
		logger.Log.WithError(err).Warn("tracing shutdown error")
	}
}
