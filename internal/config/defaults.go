package config

// Default configuration values, applied before file and environment
// overrides.
const (
	// DefaultScanWorkers of zero lets the scanner size itself to the CPU.
	DefaultScanWorkers = 0

	// DefaultScanFileTimeout bounds a single file's analysis.
	DefaultScanFileTimeout = "10s"

	// DefaultReportFormat is the terminal report.
	DefaultReportFormat = "text"

	// DefaultReportTopFiles bounds the per-file table in non-verbose mode.
	DefaultReportTopFiles = 15

	// DefaultReportFailUnder of zero disables the reusability gate.
	DefaultReportFailUnder = 0.0

	// DefaultBaselinePath is where the baseline snapshot lives.
	DefaultBaselinePath = ".reuselens.baseline"

	// DefaultBaselineTolerance is the allowed reusability drop in
	// percentage points before a baseline check fails.
	DefaultBaselineTolerance = 0.5
)
