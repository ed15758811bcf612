// Package commands implements CLI command handlers for reuselens.
package commands

import (
	"log/slog"
	"os"

	"github.com/reuselens/reuselens/internal/config"
	"github.com/reuselens/reuselens/internal/observability"
	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/scanner"
	"github.com/reuselens/reuselens/pkg/version"
)

// Standard OTel environment variables; export is enabled only when the
// endpoint is set.
const (
	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
	envEnvironment  = "REUSELENS_ENV"
)

// initTelemetry initializes observability for the given mode from the
// standard environment variables.
func initTelemetry(mode observability.AppMode, logJSON bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Mode = mode
	cfg.LogJSON = logJSON
	cfg.Environment = os.Getenv(envEnvironment)
	cfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
	cfg.OTLPInsecure = os.Getenv(envOTLPInsecure) == "true"
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))

	return observability.Init(cfg)
}

// loadRegistry builds the active signature registry. An empty path yields
// the compiled-in defaults.
func loadRegistry(path string) (*platform.Registry, error) {
	if path == "" {
		return platform.NewDefaultRegistry()
	}

	file, err := platform.LoadSignatureFile(path)
	if err != nil {
		return nil, err
	}

	return platform.BuildRegistry(file)
}

// buildScanner assembles the scan pipeline from loaded configuration.
func buildScanner(
	cfg *config.Config,
	signaturesPath string,
	logger *slog.Logger,
	metrics scanner.Metrics,
) (*scanner.Scanner, error) {
	if signaturesPath == "" {
		signaturesPath = cfg.Signatures.File
	}

	registry, err := loadRegistry(signaturesPath)
	if err != nil {
		return nil, err
	}

	return scanner.New(registry, logger, metrics, scanner.Options{
		Workers:     cfg.Scan.Workers,
		FileTimeout: cfg.Scan.Timeout(),
	})
}
