package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// The config file is .reuselens.yaml, searched in the working directory and
// $HOME unless an explicit path is given. Environment variables use the
// REUSELENS_ prefix with underscores for nested keys, e.g.
// REUSELENS_SCAN_WORKERS.
const (
	configName = ".reuselens"
	configType = "yaml"
	envPrefix  = "REUSELENS"
)

var defaults = map[string]any{
	"scan.workers":       DefaultScanWorkers,
	"scan.file_timeout":  DefaultScanFileTimeout,
	"signatures.file":    "",
	"report.format":      DefaultReportFormat,
	"report.no_color":    false,
	"report.verbose":     false,
	"report.top_files":   DefaultReportTopFiles,
	"report.fail_under":  DefaultReportFailUnder,
	"baseline.path":      DefaultBaselinePath,
	"baseline.tolerance": DefaultBaselineTolerance,
}

// Load resolves the effective configuration: defaults first, then an
// optional config file, then REUSELENS_* environment variables. A missing
// config file is not an error. configPath, when non-empty, names the file
// to read instead of searching.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return v
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	return v
}
