package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/config"
	"github.com/kalder-cloud/reagent/internal/db"
	dbRedis "github.com/kalder-cloud/reagent/internal/db/redis"
	"github.com/kalder-cloud/reagent/internal/domain"
	logpkg "github.com/kalder-cloud/reagent/internal/logger"
	"github.com/kalder-cloud/reagent/internal/metrics"
	corpusrepo "github.com/kalder-cloud/reagent/internal/repository/corpus"
	runsrepo "github.com/kalder-cloud/reagent/internal/repository/runs"
	chiTransport "github.com/kalder-cloud/reagent/internal/transport/chi"
	openaiModel "github.com/kalder-cloud/reagent/internal/transport/openai"
	agentuc "github.com/kalder-cloud/reagent/internal/usecase/agent"
	healthuc "github.com/kalder-cloud/reagent/internal/usecase/health"
	retrievaluc "github.com/kalder-cloud/reagent/internal/usecase/retrieval"
	"github.com/kalder-cloud/reagent/internal/version"
)

// runStore is what the transport and loop need from a run backend.
type runStore interface {
	agentuc.Recorder
	chiTransport.RunReader
}

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reagent API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("runs_driver", cfg.Runs.Driver),
		zap.String("model", cfg.Model.Model),
	)

	// The corpus is loaded once and shared read-only across all runs.
	docs, corpusPath, err := corpusrepo.Load(cfg.Corpus.Dir)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	logger.Info("Corpus loaded",
		zap.String("path", corpusPath),
		zap.Int("documents", len(docs)),
	)

	// Run store based on driver
	var (
		runs      runStore
		store     db.Store
		storePing healthuc.StorePinger
	)
	switch cfg.Runs.Driver {
	case "file":
		runs = runsrepo.NewFileStore(cfg.Runs.Dir)
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")

		runs = runsrepo.NewRedisStore(store, cfg.Runs.KeyPrefix)
		storePing = store
	default:
		logger.Fatal("Unknown runs driver", zap.String("driver", cfg.Runs.Driver))
	}

	// Register agent metrics explicitly (no init())
	metrics.RegisterAgentMetrics()

	completer := openaiModel.NewCompleter(&openaiModel.Config{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Model,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Logger:      logger,
	})

	searchSvc := retrievaluc.New(docs)
	agentSvc := agentuc.New(completer, searchSvc, runs, domain.AgentConfig{
		MaxSteps: cfg.Agent.MaxSteps,
		Verbose:  cfg.Agent.Verbose,
	}).WithObserver(agentuc.NewLogObserver(logger, cfg.Agent.Verbose))
	healthSvc := healthuc.New(searchSvc, storePing, completer)

	server := chiTransport.NewServer(agentSvc, searchSvc, runs, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a
// plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID. It also stores a per-request logger in the context so the
// loop and retrieval engine log with the request id attached.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
