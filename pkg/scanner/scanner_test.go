package scanner_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/scanner"
)

// recordingMetrics captures instrumentation calls for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	outcomes   map[string]int
	statements map[platform.Category]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		outcomes:   make(map[string]int),
		statements: make(map[platform.Category]int),
	}
}

func (m *recordingMetrics) RecordFile(_ context.Context, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcomes[outcome]++
}

func (m *recordingMetrics) RecordStatements(_ context.Context, category platform.Category, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statements[category] += count
}

func newTestScanner(t *testing.T, metrics scanner.Metrics) *scanner.Scanner {
	t.Helper()

	registry, err := platform.NewDefaultRegistry()
	require.NoError(t, err)

	scan, err := scanner.New(registry, slog.Default(), metrics, scanner.Options{Workers: 2})
	require.NoError(t, err)

	return scan
}

func TestScan_MixedTree(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Web.tsx":    `const C = () => <div className="a">{1}</div>;`,
		"Native.tsx": `const styles = StyleSheet.create({});`,
		"Shared.ts":  "const a = 1;\nconst b = 2;",
		"Broken.tsx": "function ((((",
	})

	metrics := newRecordingMetrics()
	scan := newTestScanner(t, metrics)

	summary, err := scan.Scan(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.WebCount)
	assert.Equal(t, 1, summary.NativeCount)
	assert.Equal(t, 2, summary.SharedCount)
	assert.Equal(t, 4, summary.TotalStatements())
	assert.InDelta(t, 50.0, summary.Reusability(), 0.001)

	require.Len(t, summary.Files, 3)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, filepath.Join(root, "Broken.tsx"), summary.Skipped[0].Path)
	assert.Contains(t, summary.Skipped[0].Reason, "syntax")

	assert.Equal(t, 3, metrics.outcomes["ok"])
	assert.Equal(t, 1, metrics.outcomes["parse_failure"])
	assert.Equal(t, 2, metrics.statements[platform.CategoryShared])
}

func TestScan_FailingFileDoesNotAbort(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Broken.tsx": "const = ((((",
		"Good.tsx":   "const a = 1;",
	})

	scan := newTestScanner(t, nil)

	summary, err := scan.Scan(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Len(t, summary.Files, 1)
	assert.Len(t, summary.Skipped, 1)
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"A.tsx": `const a = <div className="a" />;`,
		"B.tsx": `const b = <View />;`,
		"C.tsx": "const c = 1;",
		"D.tsx": `const d = Platform.OS;`,
	})

	scan := newTestScanner(t, nil)

	first, err := scan.Scan(context.Background(), []string{root})
	require.NoError(t, err)

	second, err := scan.Scan(context.Background(), []string{root})
	require.NoError(t, err)

	require.Len(t, first.Files, len(second.Files))

	for i := range first.Files {
		assert.Equal(t, first.Files[i].Path, second.Files[i].Path)
	}

	assert.Equal(t, first.Occurrences, second.Occurrences)
}

func TestScan_CanceledContext(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"App.tsx": "const a = 1;"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scan := newTestScanner(t, nil)

	_, err := scan.Scan(ctx, []string{root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScan_EmptyTree(t *testing.T) {
	t.Parallel()

	scan := newTestScanner(t, nil)

	summary, err := scan.Scan(context.Background(), []string{t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, summary.Files)
	assert.InDelta(t, 100.0, summary.Reusability(), 0.001)
}

func TestAnalyzeSource(t *testing.T) {
	t.Parallel()

	scan := newTestScanner(t, nil)

	tally, err := scan.AnalyzeSource(context.Background(), "Snippet.tsx",
		[]byte(`const styles = StyleSheet.create({});`))
	require.NoError(t, err)

	assert.Equal(t, 1, tally.NativeCount)
	assert.Equal(t, "Snippet.tsx", tally.Path)
}

func TestAnalyzeSource_SyntaxError(t *testing.T) {
	t.Parallel()

	scan := newTestScanner(t, nil)

	_, err := scan.AnalyzeSource(context.Background(), "Broken.tsx", []byte("function (((("))
	require.Error(t, err)
}
