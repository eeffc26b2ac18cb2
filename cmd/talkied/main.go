package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lcavallo/talkie/internal/app"
	"github.com/lcavallo/talkie/internal/config"
	"github.com/lcavallo/talkie/internal/httpapi"
	"github.com/lcavallo/talkie/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	components, err := app.Build(context.Background(), cfg, app.Options{})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer components.Close()

	probeCtx, probeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := components.Engine.Healthcheck(probeCtx); err != nil {
		probeCancel()
		log.Fatalf("language model backend unreachable: %v", err)
	}
	probeCancel()

	api := httpapi.New(cfg, components.Engine, components.Transcriber, components.Synth, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
