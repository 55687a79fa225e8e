package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/localinsights/internal/config"
	"github.com/joshua-takyi/localinsights/internal/connect"
	"github.com/joshua-takyi/localinsights/internal/container"
	"github.com/joshua-takyi/localinsights/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting LocalInsights API server", "environment", cfg.Environment, "storage", cfg.StorageBackend)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("Invalid TIMEZONE", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	clients, err := connectClients(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect external services", "error", err)
		os.Exit(1)
	}

	// Initialize dependency container
	appContainer, err := container.NewContainer(ctx, cfg, logger, loc, clients)
	if err != nil {
		logger.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Close connections
	if err := connect.MongoDBDisconnect(clients.Mongo); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if clients.Redis != nil {
		if err := clients.Redis.Close(); err != nil {
			logger.Error("Error closing Redis client", "error", err)
		}
	}

	logger.Info("Server exited")
}

// connectClients opens only the services that are configured.
func connectClients(ctx context.Context, cfg *config.Config, logger *slog.Logger) (container.Clients, error) {
	var clients container.Clients
	var err error

	if cfg.StorageBackend == config.BackendRedis {
		if clients.Redis, err = connect.Redis(ctx, cfg.RedisURL); err != nil {
			return clients, err
		}
		logger.Info("Connected to Redis successfully")
	}

	if cfg.MongoEnabled() {
		if clients.Mongo, err = connect.MongoDB(ctx, cfg.MongoURI()); err != nil {
			return clients, err
		}
		logger.Info("Connected to MongoDB successfully")
	}

	if cfg.SupabaseEnabled() {
		if clients.Supabase, err = connect.Supabase(cfg.SupabaseURL, cfg.SupabaseAnonKey); err != nil {
			return clients, err
		}
		logger.Info("Connected to Supabase successfully")
	}

	if cfg.CloudinaryEnabled() {
		if clients.Cloudinary, err = connect.Cloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
			return clients, err
		}
		logger.Info("Cloudinary configured")
	}

	return clients, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(cfg.LogLevel, slog.LevelInfo),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(cfg.LogLevel, slog.LevelDebug),
		})
	}

	return slog.New(handler)
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return fallback
	}
	return level
}
