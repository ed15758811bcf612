package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reuselens/reuselens/internal/config"
	"github.com/reuselens/reuselens/internal/observability"
	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

// Output format names.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatHTML = "html"
)

// Sentinel errors for the scan command.
var (
	// ErrUnknownFormat indicates an unsupported --format value.
	ErrUnknownFormat = errors.New("unknown format (expected text, json, yaml, or html)")
	// ErrReuseBelowThreshold indicates the reusability gate failed.
	ErrReuseBelowThreshold = errors.New("reusability below threshold")
)

// ScanCommand holds configuration and flags for the scan command.
type ScanCommand struct {
	configPath     string
	signaturesPath string
	format         string
	outputPath     string
	noColor        bool
	verbose        bool
	topFiles       int
	failUnder      float64
	workers        int
	fileTimeout    string
	logJSON        bool
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	sc := &ScanCommand{}

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Analyze component sources and report cross-platform reusability",
		Long: "Scan walks the given paths (default: current directory), categorizes " +
			"every statement in supported component sources as web-specific, " +
			"native-specific, or shared, and reports the reusability percentage.",
		RunE: sc.run,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Config file path (default: .reuselens.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&sc.signaturesPath, "signatures", "s", "", "Custom signature file (JSON or YAML)")
	cmd.Flags().StringVarP(&sc.format, "format", "f", "", "Output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&sc.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&sc.verbose, "verbose", "v", false, "List every file without truncation")
	cmd.Flags().IntVar(&sc.topFiles, "top-files", 0, "Per-file table size in non-verbose mode (0 = default)")
	cmd.Flags().Float64Var(&sc.failUnder, "fail-under", 0, "Exit non-zero when reusability is below this percentage")
	cmd.Flags().IntVar(&sc.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	cmd.Flags().StringVar(&sc.fileTimeout, "file-timeout", "", "Per-file analysis timeout (e.g. 10s)")
	cmd.Flags().BoolVar(&sc.logJSON, "log-json", false, "Emit JSON-formatted logs")

	return cmd
}

func (sc *ScanCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := sc.loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, err := initTelemetry(observability.ModeCLI, sc.logJSON)
	if err != nil {
		return err
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	metrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return err
	}

	scan, err := buildScanner(cfg, sc.signaturesPath, providers.Logger, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := scan.Scan(ctx, resolveRoots(args))
	if err != nil {
		return err
	}

	writer, closeWriter, err := sc.openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeWriter()

	renderErr := sc.render(summary, cfg, writer)
	if renderErr != nil {
		return renderErr
	}

	return sc.checkThreshold(summary, cfg)
}

// loadConfig loads file/env configuration and overlays explicitly set flags.
func (sc *ScanCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Report.Format = sc.format
	}

	if flags.Changed("no-color") {
		cfg.Report.NoColor = sc.noColor
	}

	if flags.Changed("verbose") {
		cfg.Report.Verbose = sc.verbose
	}

	if flags.Changed("top-files") {
		cfg.Report.TopFiles = sc.topFiles
	}

	if flags.Changed("fail-under") {
		cfg.Report.FailUnder = sc.failUnder
	}

	if flags.Changed("workers") {
		cfg.Scan.Workers = sc.workers
	}

	if flags.Changed("file-timeout") {
		cfg.Scan.FileTimeout = sc.fileTimeout
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return cfg, nil
}

func (sc *ScanCommand) openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if sc.outputPath == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	file, err := os.Create(sc.outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", sc.outputPath, err)
	}

	return file, func() { _ = file.Close() }, nil
}

func (sc *ScanCommand) render(summary *platform.ProjectSummary, cfg *config.Config, w io.Writer) error {
	switch cfg.Report.Format {
	case formatText:
		return platform.WriteText(summary, w, platform.RenderOptions{
			NoColor:  cfg.Report.NoColor || sc.outputPath != "",
			Verbose:  cfg.Report.Verbose,
			TopFiles: cfg.Report.TopFiles,
		})
	case formatJSON:
		return platform.WriteJSON(summary, w)
	case formatYAML:
		return platform.WriteYAML(summary, w)
	case formatHTML:
		return platform.WriteHTML(summary, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Report.Format)
	}
}

func (sc *ScanCommand) checkThreshold(summary *platform.ProjectSummary, cfg *config.Config) error {
	threshold := cfg.Report.FailUnder
	if threshold <= 0 {
		return nil
	}

	reuse := summary.Reusability()
	if reuse < threshold {
		return fmt.Errorf("%w: %.1f%% < %.1f%%", ErrReuseBelowThreshold, reuse, threshold)
	}

	return nil
}

func resolveRoots(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}

	return args
}
