package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kotechile/trend-analisys-sub006/internal/config"
	"github.com/kotechile/trend-analisys-sub006/internal/handler"
	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/cache"
	"github.com/kotechile/trend-analisys-sub006/pkg/keyword"
	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
	"github.com/kotechile/trend-analisys-sub006/pkg/trend"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		stdlog.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Logger.Level
	if app.debug {
		logLevel = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      logLevel,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log := logger.GetLogger().WithField("component", "server")

	// Cache store: Redis when configured, in-process LRU otherwise. The
	// client is constructed here and injected; services never reach for a
	// global connection.
	var store cache.Store
	var redisClient *redis.Client
	if cfg.Cache.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		store = cache.NewRedisStore(redisClient)
		log.WithField("addr", cfg.Cache.RedisAddr).Info("Using Redis cache store")
	} else {
		store = cache.NewMemoryStore(cfg.Cache.MaxEntries)
		log.Info("Redis not configured, using in-memory cache store")
	}

	upstream := api.NewHTTPClient(cfg.Provider)
	resilient := api.NewResilientClient(upstream, cfg.Resilience)

	keywordService := keyword.NewService(resilient, store, cfg.KeywordCacheTTL())
	trendService := trend.NewService(resilient, store, cfg.TrendCacheTTL())

	fiberApp := fiber.New(fiber.Config{
		AppName:      "trend-research",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	handler.NewController(keywordService, trendService).Register(fiberApp)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server listening")
		errChan <- fiberApp.Listen(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown was not clean")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Warn("Redis close was not clean")
		}
	}

	log.Info("Server stopped")
	return nil
}
