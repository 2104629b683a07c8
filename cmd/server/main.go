// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/database"
	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/jobs"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/router"
	"github.com/javajoker/energy-eservice/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	store := newCache(cfg)
	defer store.Close()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	stop := make(chan struct{})
	limiters := middleware.NewLimiters()
	limiters.Run(stop)

	r, err := router.Initialize(router.Dependencies{
		DB:       db,
		Cache:    store,
		Limiters: limiters,
	}, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	scheduler, err := jobs.NewScheduler(services.NewAuditService(db), cfg.Retention)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to schedule jobs")
	}
	scheduler.Start()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	scheduler.Stop(ctx)
	close(stop)

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// newCache prefers Redis when configured and falls back to process memory.
func newCache(cfg *config.Config) cache.Cache {
	if !cfg.Redis.Enabled() {
		logrus.Info("Using in-memory query cache")
		return cache.NewMemoryCache()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, using in-memory query cache")
		return cache.NewMemoryCache()
	}
	logrus.WithField("addr", cfg.Redis.Addr()).Info("Using Redis query cache")
	return store
}
