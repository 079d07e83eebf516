package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"sharc-gateway/internal/activity"
	"sharc-gateway/internal/api"
	"sharc-gateway/internal/backend"
	"sharc-gateway/internal/calendar"
	"sharc-gateway/internal/config"
	"sharc-gateway/internal/logger"
	"sharc-gateway/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	// --- Redis Setup (profile cache) ---
	var cache session.ProfileCache
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("MAIN", fmt.Sprintf("Redis unavailable at %s, running without profile cache: %v", cfg.Redis.Addr, err))
	} else {
		log.Info("MAIN", fmt.Sprintf("Connected to Redis at %s", cfg.Redis.Addr))
		cache = session.NewRedisProfileCache(redisClient, cfg.Redis.ProfileTTL)
	}
	cancel()

	// --- Kafka Setup (activity stream) ---
	var publisher activity.Publisher = activity.NoopPublisher{}
	var producer *activity.Producer
	if cfg.Kafka.Enabled {
		producer = activity.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic, log)
		publisher = producer
		log.Info("MAIN", fmt.Sprintf("Publishing RSVP activity to topic %s", cfg.Kafka.ActivityTopic))
	}

	// --- Timezone for day bucketing ---
	loc, err := time.LoadLocation(cfg.View.Timezone)
	if err != nil {
		log.Fatal("MAIN", fmt.Sprintf("Invalid VIEW_TIMEZONE %q: %v", cfg.View.Timezone, err))
	}

	// --- Wire the pipeline ---
	backendClient := backend.NewClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, log)
	resolver := session.NewResolver(backendClient, cache, log)
	calendarService := calendar.NewService(backendClient, resolver, log)
	calendarService.DefaultDays = cfg.View.DefaultDays
	handler := api.NewHandler(calendarService, backendClient, backendClient, publisher, log, loc)

	// --- Setup Router ---
	r := chi.NewRouter()
	r.Use(api.RequestLogger(log))

	r.Get("/healthz", handler.Health)
	r.Get("/api/v1/calendar", handler.GetCalendar)
	r.Get("/api/v1/clubs", handler.GetClubs)
	r.Post("/api/v1/events/{eventID}/rsvp", handler.SubmitRSVP)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("MAIN", fmt.Sprintf("SHARC gateway running on %s (backend: %s)", cfg.Server.Port, cfg.Backend.BaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("MAIN", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("MAIN", "Shutdown signal received, cleaning up")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("MAIN", fmt.Sprintf("Server forced to shutdown: %v", err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("MAIN", fmt.Sprintf("Kafka producer close error: %v", err))
		}
	}

	log.Info("MAIN", "Server exited gracefully")
}
