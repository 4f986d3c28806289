package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osconnect/internal/domain/auth"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/osconnect/internal/logger"
	"github.com/kailas-cloud/osconnect/internal/metrics"
	searchrepo "github.com/kailas-cloud/osconnect/internal/repository/search"
	chiTransport "github.com/kailas-cloud/osconnect/internal/transport/chi"
	exportuc "github.com/kailas-cloud/osconnect/internal/usecase/export"
	healthuc "github.com/kailas-cloud/osconnect/internal/usecase/health"
	searchuc "github.com/kailas-cloud/osconnect/internal/usecase/search"
	"github.com/kailas-cloud/osconnect/internal/version"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

// services builds the use case layer over the app's store.
func services(a *app) (*searchuc.Service, *exportuc.Service) {
	metrics.Register()

	repo := searchrepo.New(a.store, a.cfg.OpenSearch.Index)
	builder := query.NewBuilder(a.cfg.Search.Fields)
	timeout := time.Duration(a.cfg.Search.TimeoutSec) * time.Second

	searchSvc := searchuc.New(repo, builder, searchuc.Config{
		Columns:    a.cfg.Search.Columns,
		DateFields: a.cfg.Search.DateFields,
		Timeout:    timeout,
	})
	exportSvc := exportuc.New(repo, builder, exportuc.Config{
		MaxRecords: a.cfg.Export.MaxRecords,
		Timeout:    timeout,
	})
	return searchSvc, exportSvc
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting osconnect server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("opensearch_host", cfg.OpenSearch.Host),
		zap.String("index", cfg.OpenSearch.Index),
	)

	if err := a.waitForCluster(ctx); err != nil {
		return err
	}

	searchSvc, exportSvc := services(a)
	healthSvc := healthuc.New(a.store)

	server, err := chiTransport.NewServer(searchSvc, exportSvc, healthSvc, chiTransport.Options{
		Title:          cfg.UI.Title,
		ExportFilename: cfg.Export.Filename,
		Regions:        cfg.UI.Regions,
		BusinessAreas:  cfg.UI.BusinessAreas,
		DataSources:    cfg.UI.DataSources,
	}, logger)
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	var creds *auth.Basic
	if cfg.Auth.Enabled() {
		b, err := auth.NewBasic(cfg.Auth.Username, cfg.Auth.Password)
		if err != nil {
			return fmt.Errorf("ui auth: %w", err)
		}
		creds = &b
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BasicAuthMiddleware(creds, cfg.Auth.Realm))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:   "internal_error",
						Detail: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
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
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
