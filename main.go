package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"tiktok-relay/config"
	"tiktok-relay/handlers"
	"tiktok-relay/middleware"
	"tiktok-relay/pkg/logger"
	"tiktok-relay/service"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	log := logger.New()

	// Initialize Service
	svc := service.NewRelayService(cfg, log)
	trackHandler := handlers.NewTrackHandler(svc)

	// Router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log, []byte(cfg.LogHashKey)))
	r.HandleFunc("/api/tiktok-events", trackHandler.TrackEventHandler).Methods("POST")
	r.HandleFunc("/api/tiktok-events", trackHandler.TrackStatusHandler).Methods("GET")
	r.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("upstream", cfg.EventsURL).Msg("relay starting")
		if cfg.PixelCode != "" && cfg.AccessToken != "" {
			// Log credential presence only, never the values.
			log.Info().Int("token_length", len(cfg.AccessToken)).Msg("TikTok credentials configured")
		} else {
			log.Warn().Msg("TikTok credentials NOT configured; event POSTs will be refused with 500")
		}
		if cfg.TestEventCode != "" {
			log.Info().Str("test_event_code", cfg.TestEventCode).Msg("test mode: all events routed to sandbox stream")
		}

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give in-flight relays up to 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
