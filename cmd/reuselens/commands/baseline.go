package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reuselens/reuselens/internal/config"
	"github.com/reuselens/reuselens/internal/observability"
	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/baseline"
)

// ErrBaselineRegressed indicates the current scan fell below the stored
// baseline by more than the tolerance.
var ErrBaselineRegressed = errors.New("reusability regressed against baseline")

// BaselineCommand holds flags shared by the baseline subcommands.
type BaselineCommand struct {
	configPath     string
	signaturesPath string
	baselinePath   string
	tolerance      float64
	logJSON        bool
}

// NewBaselineCommand creates the baseline command with write and check
// subcommands.
func NewBaselineCommand() *cobra.Command {
	bc := &BaselineCommand{tolerance: -1}

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Persist or check a reusability baseline",
		Long: "Baseline snapshots a scan's reusability percentages so later scans " +
			"can be gated against them in CI.",
	}

	cmd.PersistentFlags().StringVarP(&bc.configPath, "config", "c", "", "Config file path")
	cmd.PersistentFlags().StringVarP(&bc.signaturesPath, "signatures", "s", "", "Custom signature file (JSON or YAML)")
	cmd.PersistentFlags().StringVarP(&bc.baselinePath, "baseline", "b", "", "Baseline file path (default from config)")
	cmd.PersistentFlags().BoolVar(&bc.logJSON, "log-json", false, "Emit JSON-formatted logs")

	writeCmd := &cobra.Command{
		Use:   "write [path...]",
		Short: "Scan and store the result as the new baseline",
		RunE:  bc.runWrite,
	}

	checkCmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Scan and fail when reusability dropped below the baseline",
		RunE:  bc.runCheck,
	}
	checkCmd.Flags().Float64VarP(&bc.tolerance, "tolerance", "t", -1,
		"Allowed reusability drop in percentage points (default from config)")

	cmd.AddCommand(writeCmd)
	cmd.AddCommand(checkCmd)

	return cmd
}

func (bc *BaselineCommand) runWrite(cmd *cobra.Command, args []string) error {
	cfg, summary, err := bc.scan(cmd, args)
	if err != nil {
		return err
	}

	path := bc.resolvePath(cfg)

	writeErr := baseline.Write(path, baseline.FromSummary(summary))
	if writeErr != nil {
		return writeErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Baseline written to %s (reusability %.1f%%, %d files)\n",
		path, summary.Reusability(), len(summary.Files))

	return nil
}

func (bc *BaselineCommand) runCheck(cmd *cobra.Command, args []string) error {
	cfg, summary, err := bc.scan(cmd, args)
	if err != nil {
		return err
	}

	path := bc.resolvePath(cfg)

	snap, readErr := baseline.Read(path)
	if readErr != nil {
		return readErr
	}

	tolerance := bc.tolerance
	if tolerance < 0 {
		tolerance = cfg.Baseline.Tolerance
	}

	report := baseline.Compare(snap, summary, tolerance)
	report.WriteText(cmd.OutOrStdout())

	if report.Regressed {
		return fmt.Errorf("%w: %.1f%% -> %.1f%%",
			ErrBaselineRegressed, report.BaselinePercent, report.CurrentPercent)
	}

	return nil
}

func (bc *BaselineCommand) scan(cmd *cobra.Command, args []string) (*config.Config, *platform.ProjectSummary, error) {
	cfg, err := config.Load(bc.configPath)
	if err != nil {
		return nil, nil, err
	}

	providers, err := initTelemetry(observability.ModeCLI, bc.logJSON)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	metrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return nil, nil, err
	}

	scan, err := buildScanner(cfg, bc.signaturesPath, providers.Logger, metrics)
	if err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := scan.Scan(ctx, resolveRoots(args))
	if err != nil {
		return nil, nil, err
	}

	return cfg, summary, nil
}

func (bc *BaselineCommand) resolvePath(cfg *config.Config) string {
	if bc.baselinePath != "" {
		return bc.baselinePath
	}

	return cfg.Baseline.Path
}
