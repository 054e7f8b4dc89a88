package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seolens/seo-analyzer/internal/analyzer"
	"github.com/seolens/seo-analyzer/internal/platform/config"
	"github.com/seolens/seo-analyzer/internal/platform/logger"
	"github.com/seolens/seo-analyzer/internal/platform/middleware"
	"github.com/seolens/seo-analyzer/internal/seo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("seo analyzer starting", "port", cfg.Port)

	engineCfg := seo.DefaultConfig()
	engineCfg.FetchTimeout = cfg.FetchTimeout
	engineCfg.ProbeTimeout = cfg.ProbeTimeout

	engine := seo.NewEngine(seo.NewHTTPFetcher(engineCfg), seo.NewHTTPProber(engineCfg))
	service := analyzer.NewService(engine, log)
	transport := analyzer.NewTransport(service, log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	handler := middleware.CORS(cfg.AllowedOrigins)(
		middleware.Logging(log)(
			middleware.RequestID(mux),
		),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
