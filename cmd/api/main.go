package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/redflag-scanner/internal/application"
	appai "github.com/bryanwahyu/redflag-scanner/internal/application/ai"
	"github.com/bryanwahyu/redflag-scanner/internal/config"
	aiopenai "github.com/bryanwahyu/redflag-scanner/internal/infra/ai/openai"
	"github.com/bryanwahyu/redflag-scanner/internal/infra/httpserver"
	"github.com/bryanwahyu/redflag-scanner/internal/logger"
	"github.com/bryanwahyu/redflag-scanner/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync()

	if !cfg.AI.IsEnabled() {
		zl.Warn("no AI provider api key configured; every analysis will fail until one is set",
			zap.String("env", "REDFLAG_AI_API_KEY"))
	}

	client := aiopenai.NewClient(aiopenai.Options{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})

	svc := appai.NewService(client, appai.Options{
		Profile:         cfg.Profile(),
		MaxOutputTokens: cfg.AI.MaxTokens,
		Clock:           application.SystemClock{},
	})

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Logger:         zl,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		HealthCheckers: map[string]middleware.HealthChecker{
			"ai_provider": middleware.ProviderHealthChecker{Configured: client.Configured},
		},
		Service: middleware.ServiceInfo{
			Model:              client.Model,
			Profile:            svc.Profile(),
			ProviderConfigured: client.Configured(),
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("model", client.Model),
			zap.String("profile", string(svc.Profile())),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zl.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
}
