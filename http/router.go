package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-predictor/service"
)

type RouterConfig struct {
	StaticPrefix   string
	StaticDir      string
	AllowedOrigins []string
	MaxBodyBytes   int64
	TrustedProxies TrustedProxies
}

// NewRouter wires every route and the shared middleware chain. limiter may
// be nil to disable rate limiting on /predict.
func NewRouter(
	predictionService *service.PredictionService,
	limiter *RateLimiter,
	cfg RouterConfig,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	predictHandler := NewPredictHandler(predictionService, cfg.MaxBodyBytes, logger)
	healthHandler := NewHealthHandler(predictionService)

	mux := http.NewServeMux()
	mux.Handle(
		"/predict",
		RateLimitMiddleware(
			limiter,
			cfg.TrustedProxies,
			logger,
			http.HandlerFunc(predictHandler.Predict),
		),
	)
	mux.HandleFunc("/healthz", healthHandler.Health)

	if cfg.StaticDir != "" {
		mux.Handle(StaticFiles(cfg.StaticPrefix, cfg.StaticDir))
	}
	mux.HandleFunc("/", RootRedirect(cfg.StaticPrefix))

	chain := Chain(
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggerMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)
	return chain(mux)
}
