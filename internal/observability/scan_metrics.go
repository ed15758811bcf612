package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

// Attribute keys for scan metrics.
const (
	attrKeyOutcome  = "outcome"
	attrKeyCategory = "category"
)

// fileDurationBounds are histogram buckets for per-file analysis time, in
// seconds. Most files parse in well under a second; the tail captures
// error-recovery blowups.
var fileDurationBounds = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// ScanMetrics instruments the scan pipeline. Safe for concurrent use; OTel
// instruments are goroutine-safe.
type ScanMetrics struct {
	filesTotal      metric.Int64Counter
	statementsTotal metric.Int64Counter
	fileDuration    metric.Float64Histogram
}

// NewScanMetrics creates the scan instrument set on the given meter.
func NewScanMetrics(meter metric.Meter) (*ScanMetrics, error) {
	filesTotal, err := meter.Int64Counter("reuselens.scan.files.total",
		metric.WithDescription("Files processed by the scan pipeline, by outcome"),
		metric.WithUnit("{file}"))
	if err != nil {
		return nil, fmt.Errorf("create reuselens.scan.files.total: %w", err)
	}

	statementsTotal, err := meter.Int64Counter("reuselens.scan.statements.total",
		metric.WithDescription("Statements categorized, by category"),
		metric.WithUnit("{statement}"))
	if err != nil {
		return nil, fmt.Errorf("create reuselens.scan.statements.total: %w", err)
	}

	fileDuration, err := meter.Float64Histogram("reuselens.scan.file.duration",
		metric.WithDescription("Per-file analysis duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fileDurationBounds...))
	if err != nil {
		return nil, fmt.Errorf("create reuselens.scan.file.duration: %w", err)
	}

	return &ScanMetrics{
		filesTotal:      filesTotal,
		statementsTotal: statementsTotal,
		fileDuration:    fileDuration,
	}, nil
}

// RecordFile counts one processed file with its outcome and duration.
func (m *ScanMetrics) RecordFile(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrKeyOutcome, outcome))

	m.filesTotal.Add(ctx, 1, attrs)
	m.fileDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordStatements counts categorized statements for one file.
func (m *ScanMetrics) RecordStatements(ctx context.Context, category platform.Category, count int) {
	if count == 0 {
		return
	}

	m.statementsTotal.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String(attrKeyCategory, string(category))))
}
