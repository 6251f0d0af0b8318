// Package main is the entry point for the linkweaver-server binary. It
// serves the transform and audit operations over HTTP with hot-reloaded
// rules, Prometheus metrics and optional OTLP tracing.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linkweaver/linkweaver-oss/pkg/config"
	"github.com/linkweaver/linkweaver-oss/pkg/domain"
	"github.com/linkweaver/linkweaver-oss/pkg/engine"
	"github.com/linkweaver/linkweaver-oss/pkg/logging"
	"github.com/linkweaver/linkweaver-oss/pkg/telemetry"
)

const (
	defaultRulesPath  = "rules.yaml"
	defaultListenAddr = ":8090"
)

func main() {
	rulesPath := flag.String("rules", defaultRulesPath, "Path to rule file")
	listenAddr := flag.String("listen", defaultListenAddr, "Address to listen on")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	prettyLogs := flag.Bool("pretty", false, "Enable pretty console logging")
	otlpEndpoint := flag.String("otlp-endpoint", "", "OTLP gRPC endpoint for traces (empty disables tracing)")
	flag.Parse()

	logger := logging.NewLogger(logging.Config{Level: *logLevel, Pretty: *prettyLogs})
	logger.Info().Str("rules", *rulesPath).Str("listen", *listenAddr).Msg("starting linkweaver-server")

	shutdownTracing, err := telemetry.SetupProvider(context.Background(), telemetry.Config{
		ServiceName: "linkweaver-server",
		Endpoint:    *otlpEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize tracing")
		os.Exit(1)
	}

	provider, err := config.NewFileRuleProvider(*rulesPath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize rule provider")
		os.Exit(1)
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close rule provider")
		}
	}()

	metrics := telemetry.NewMetrics()

	svc, err := engine.NewService(engine.Options{
		Rules:   provider,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize engine")
		os.Exit(1)
	}

	server := startServer(*listenAddr, svc, metrics, logger)
	waitForShutdown(server, shutdownTracing, logger)
}

func startServer(addr string, svc *engine.Service, metrics *telemetry.Metrics, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/transform", otelhttp.NewHandler(transformHandler(svc, logger), "transform"))
	mux.Handle("POST /v1/audit", otelhttp.NewHandler(auditHandler(svc, logger), "audit"))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	return server
}

type transformRequest struct {
	Content string `json:"content"`
	Item    struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	} `json:"item"`
}

type transformResponse struct {
	Content string `json:"content"`
}

func transformHandler(svc *engine.Service, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		item := domain.ContentItem{
			ID:        req.Item.ID,
			Type:      req.Item.Type,
			Title:     req.Item.Title,
			RawMarkup: req.Content,
		}

		annotated, err := svc.TransformContent(r.Context(), req.Content, item)
		if err != nil {
			// Render-path contract: never fail the page. Serve the original
			// content and log the failure.
			logger.Error().Err(err).Str("content_id", item.ID).Msg("transform failed, serving original")
			annotated = req.Content
		}

		writeJSON(w, transformResponse{Content: annotated}, logger)
	})
}

type auditRequest struct {
	RuleID string `json:"rule_id"`
	Items  []struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		Title     string `json:"title"`
		RawMarkup string `json:"raw_markup"`
	} `json:"items"`
}

func auditHandler(svc *engine.Service, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req auditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		rule, err := svc.Rule(r.Context(), req.RuleID)
		if err != nil {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}

		candidates := make([]domain.ContentItem, 0, len(req.Items))
		for _, it := range req.Items {
			candidates = append(candidates, domain.ContentItem{
				ID:        it.ID,
				Type:      it.Type,
				Title:     it.Title,
				RawMarkup: it.RawMarkup,
			})
		}

		report := svc.AuditItems(r.Context(), *rule, candidates)
		writeJSON(w, report, logger)
	})
}

func writeJSON(w http.ResponseWriter, payload any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func waitForShutdown(server *http.Server, shutdownTracing func(context.Context) error, logger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}
