package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Scan:     config.ScanConfig{Workers: 4, FileTimeout: "10s"},
		Report:   config.ReportConfig{Format: "text", TopFiles: 15},
		Baseline: config.BaselineConfig{Path: ".reuselens.baseline", Tolerance: 0.5},
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_NegativeWorkers(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Scan.Workers = -1

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidWorkers)
}

func TestValidate_BadFileTimeout(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Scan.FileTimeout = "soon"

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidFileTimeout)
}

func TestValidate_EmptyFileTimeoutAllowed(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Scan.FileTimeout = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Duration(0), cfg.Scan.Timeout())
}

func TestValidate_UnknownFormat(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Report.Format = "xml"

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidFormat)
}

func TestValidate_NegativeTopFiles(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Report.TopFiles = -1

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidTopFiles)
}

func TestValidate_FailUnderOutOfRange(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Report.FailUnder = 101

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidFailUnder)
}

func TestValidate_ToleranceOutOfRange(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Baseline.Tolerance = -0.1

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidTolerance)
}

func TestScanTimeout_Parses(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Scan.FileTimeout = "250ms"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 250*time.Millisecond, cfg.Scan.Timeout())
}
