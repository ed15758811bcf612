package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".reuselens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	// Not parallel: Load searches the CWD for a config file.
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultReportFormat, cfg.Report.Format)
	assert.Equal(t, config.DefaultReportTopFiles, cfg.Report.TopFiles)
	assert.Equal(t, config.DefaultBaselinePath, cfg.Baseline.Path)
	assert.InDelta(t, config.DefaultBaselineTolerance, cfg.Baseline.Tolerance, 0.001)
	assert.Equal(t, config.DefaultScanFileTimeout, cfg.Scan.FileTimeout)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
scan:
  workers: 8
  file_timeout: 30s
report:
  format: json
  fail_under: 60
baseline:
  path: custom.baseline
  tolerance: 1.5
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, "30s", cfg.Scan.FileTimeout)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.InDelta(t, 60.0, cfg.Report.FailUnder, 0.001)
	assert.Equal(t, "custom.baseline", cfg.Baseline.Path)
	assert.InDelta(t, 1.5, cfg.Baseline.Tolerance, 0.001)

	// Unset keys keep their defaults.
	assert.Equal(t, config.DefaultReportTopFiles, cfg.Report.TopFiles)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
report:
  format: xml
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "scan: [broken\n")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REUSELENS_SCAN_WORKERS", "3")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scan.Workers)
}
