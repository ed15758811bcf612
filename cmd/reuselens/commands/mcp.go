package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/reuselens/reuselens/internal/config"
	"github.com/reuselens/reuselens/internal/mcp"
	"github.com/reuselens/reuselens/internal/observability"
)

const (
	metricsScopeName       = "reuselens"
	metricsShutdownTimeout = 5 * time.Second
)

// MCPCommand holds flags for the MCP server command.
type MCPCommand struct {
	configPath     string
	signaturesPath string
	metricsAddr    string
}

// NewMCPCommand creates the mcp command.
func NewMCPCommand() *cobra.Command {
	mc := &MCPCommand{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyzer over the Model Context Protocol on stdio",
		Long: "MCP runs a stdio server exposing reuselens_scan and " +
			"reuselens_signatures tools, so agents can analyze component sources " +
			"without shelling out to the CLI.",
		RunE: mc.run,
	}

	cmd.Flags().StringVarP(&mc.configPath, "config", "c", "", "Config file path")
	cmd.Flags().StringVarP(&mc.signaturesPath, "signatures", "s", "", "Custom signature file (JSON or YAML)")
	cmd.Flags().StringVar(&mc.metricsAddr, "metrics-addr", "", "Serve Prometheus /metrics on this address (e.g. :9464)")

	return cmd
}

func (mc *MCPCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(mc.configPath)
	if err != nil {
		return err
	}

	// Logs must go to stderr as JSON; stdout carries the MCP protocol.
	providers, err := initTelemetry(observability.ModeMCP, true)
	if err != nil {
		return err
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	meter := providers.Meter

	if mc.metricsAddr != "" {
		promMeter, stopMetrics, metricsErr := mc.serveMetrics(providers)
		if metricsErr != nil {
			return metricsErr
		}
		defer stopMetrics()

		meter = promMeter
	}

	metrics, err := observability.NewScanMetrics(meter)
	if err != nil {
		return err
	}

	scan, err := buildScanner(cfg, mc.signaturesPath, providers.Logger, metrics)
	if err != nil {
		return err
	}

	signaturesPath := mc.signaturesPath
	if signaturesPath == "" {
		signaturesPath = cfg.Signatures.File
	}

	registry, err := loadRegistry(signaturesPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(registry, scan, providers.Logger)

	return server.Run(ctx)
}

// serveMetrics starts a Prometheus /metrics listener and returns the meter
// whose instruments it scrapes plus a stop function for both the listener
// and the bridged provider.
func (mc *MCPCommand) serveMetrics(providers observability.Providers) (metric.Meter, func(), error) {
	handler, provider, err := observability.PrometheusBridge()
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              mc.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		providers.Logger.Info("metrics listener started", "addr", mc.metricsAddr)

		serveErr := srv.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			providers.Logger.Error("metrics listener failed", "error", serveErr)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
		_ = provider.Shutdown(shutdownCtx)
	}

	return provider.Meter(metricsScopeName), stop, nil
}
