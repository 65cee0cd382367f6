package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"loan-predictor/config"
	httpLayer "loan-predictor/http"
	"loan-predictor/logging"
	"loan-predictor/ml"
	"loan-predictor/repository"
	"loan-predictor/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	artifacts, closeArtifacts := newArtifactRepository(cfg)

	// Load models ONCE at startup. A failed load leaves the server up in a
	// degraded state that answers /predict with 500.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Model.LoadTimeout)
	preprocessor, classifier := ml.LoadBundle(loadCtx, artifacts, ml.BundleConfig{
		Preprocessor:   cfg.Model.Preprocessor,
		Classifier:     cfg.Model.Classifier,
		RuntimeLibrary: cfg.Model.OnnxRuntimeLibrary,
	}, logger)
	cancelLoad()
	closeArtifacts()
	defer ml.CloseBundle(preprocessor, classifier)

	if preprocessor == nil || classifier == nil {
		logger.Warn("serving without a model bundle; predictions will fail")
	}

	predictionService := service.NewPredictionService(preprocessor, classifier, logger)

	var limiter *httpLayer.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		limiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
		defer limiter.Stop()
	}

	trustedProxies, err := httpLayer.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	router := httpLayer.NewRouter(predictionService, limiter, httpLayer.RouterConfig{
		StaticPrefix:   cfg.Static.Prefix,
		StaticDir:      cfg.Static.Dir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		TrustedProxies: trustedProxies,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", zap.Error(err))
		return
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newArtifactRepository(cfg *config.Config) (repository.ArtifactRepository, func()) {
	if cfg.Model.Store == config.StoreRedis {
		repo := repository.NewRedisArtifactRepository(repository.RedisOptions{
			Addr:      cfg.Model.Redis.Addr,
			Password:  cfg.Model.Redis.Password,
			DB:        cfg.Model.Redis.DB,
			KeyPrefix: cfg.Model.Redis.KeyPrefix,
		})
		return repo, func() { repo.Close() }
	}
	return repository.NewFileArtifactRepository(cfg.Model.Dir), func() {}
}
