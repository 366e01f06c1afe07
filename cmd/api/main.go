package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"talentscan/docs" // Swagger docs
	"talentscan/internal/api"
	"talentscan/internal/archive"
	"talentscan/internal/chat"
	"talentscan/internal/config"
	"talentscan/internal/cv"
	"talentscan/internal/export"
	"talentscan/internal/ingest"
	"talentscan/internal/llm"
	"talentscan/internal/logger"
	"talentscan/internal/storage"
)

// @title TalentScan API
// @version 1.0
// @description Resume ingestion and candidate query service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()

	store, err := storage.New(ctx, storage.Options{DatabaseURL: cfg.DatabaseURL, Logger: zl})
	if err != nil {
		return err
	}
	defer store.Close()
	zl.Info("candidate store ready", zap.String("backend", cfg.StoreBackend()))

	provider, err := llm.New(ctx, llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout,
	}, zl)
	if err != nil {
		return err
	}
	zl.Info("language model configured", zap.String("provider", cfg.LLMProvider), zap.String("model", cfg.LLMModel))

	extractor, err := cv.NewExtractor(provider, zl)
	if err != nil {
		return err
	}

	arc, err := archive.New(ctx, cfg.Archive, zl)
	if err != nil {
		return err
	}

	apiSrv := api.NewAPI(api.Deps{
		Ingest:         ingest.NewService(cv.NewCVParser(cfg.UploadsDir), extractor, store, arc, zl),
		Store:          store,
		Chat:           chat.NewService(store, chat.NewResponder(provider, zl), zl),
		Export:         export.NewService(store, zl),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         zl,
	})

	docs.SwaggerInfo.Host = cfg.SwaggerHost
	router := api.NewRouter(apiSrv, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.LLMTimeout + time.Minute,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // file uploads
		WriteTimeout: cfg.LLMTimeout + 2*time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zl.Warn("server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	zl.Info("API server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-idleConnsClosed
	return nil
}
