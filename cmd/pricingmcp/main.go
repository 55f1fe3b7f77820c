// Command pricingmcp runs the AWS Pricing Calculator tool server: a stdio
// JSON-RPC/MCP process exposing search_services, get_service_schema,
// configure_service, create_estimate, and load_estimate to an agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musheer360/awscalc-mcp/internal/audit"
	"github.com/musheer360/awscalc-mcp/internal/config"
	"github.com/musheer360/awscalc-mcp/internal/jsonrpc"
	"github.com/musheer360/awscalc-mcp/internal/pricing"
	"github.com/musheer360/awscalc-mcp/internal/store"
	"github.com/musheer360/awscalc-mcp/internal/toolsurface"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional; built-in defaults are used otherwise)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateDetailed(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: invalid config: %v\n", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(pricing.EngineConfig{
		ManifestURL:          cfg.Endpoints.ManifestURL,
		ServiceBaseURL:       cfg.Endpoints.ServiceBaseURL,
		EstimateSaveURL:      cfg.Endpoints.EstimateSaveURL,
		EstimateLoadURL:      cfg.Endpoints.EstimateLoadURL,
		DefaultRegion:        cfg.DefaultRegion,
		HTTPTimeout:          cfg.HTTPTimeout,
		MaxConcurrentFetches: cfg.Fetch.MaxConcurrentTableFetches,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: building pricing engine: %v\n", err)
		os.Exit(1)
	}

	auditLog, closeAudit := setupAudit(cfg)
	defer closeAudit()

	surface := toolsurface.New(engine, auditLog)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg)
	}

	server := jsonrpc.NewServer(surface)
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFromFile(path)
}

// setupAudit wires the audit log to SQLite when persistence is requested,
// returning a cleanup func that flushes and closes the database.
func setupAudit(cfg *config.Config) (*audit.Log, func()) {
	noop := func() {}

	if !cfg.Audit.Enabled {
		return nil, noop
	}
	if !cfg.Audit.Persist {
		return audit.New(cfg.Audit.RingCapacity), noop
	}

	db, err := store.Open(store.Config{Path: cfg.Database.Path, RetentionDays: cfg.Database.RetentionDays})
	if err != nil {
		slog.Error("audit: failed to open database, falling back to in-memory only", "error", err)
		return audit.New(cfg.Audit.RingCapacity), noop
	}

	writer := store.NewWriter(db.RawDB(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	writer.Run(ctx)

	log := audit.NewWithDB(cfg.Audit.RingCapacity, db.RawDB(), writer)
	return log, func() {
		cancel()
		log.Flush()
		db.Close()
	}
}

// serveMetrics runs the Prometheus /metrics and /healthz HTTP endpoint.
// This is a separate surface from the stdio tool transport: nothing about
// the JSON-RPC tool calls themselves is reachable here.
func serveMetrics(cfg *config.Config) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Metrics.Address, cfg.Metrics.Port)
	slog.Info("metrics server listening", "addr", addr)

	srv := &http.Server{Addr: addr, Handler: r}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server stopped", "error", err)
	}
}
