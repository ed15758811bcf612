package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/tsx"
)

// defaultFileTimeout bounds a single file's parse and traversal. Pathological
// inputs degrade tree-sitter's error recovery badly; one stuck file must not
// hang the whole scan.
const defaultFileTimeout = 10 * time.Second

// Metric outcome labels.
const (
	outcomeOK        = "ok"
	outcomeReadError = "read_error"
	outcomeParseFail = "parse_failure"
	outcomeTimeout   = "timeout"
)

// Options tunes the scan pipeline.
type Options struct {
	// Workers caps concurrent file analyses; 0 means runtime.NumCPU().
	Workers int

	// FileTimeout bounds a single file; 0 means the default, negative
	// disables the bound.
	FileTimeout time.Duration
}

// Metrics receives scan instrumentation. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordFile(ctx context.Context, outcome string, elapsed time.Duration)
	RecordStatements(ctx context.Context, category platform.Category, count int)
}

// Scanner runs the categorization pipeline: discover files, parse each one,
// traverse its statements, and fold the per-file tallies into a project
// summary. Each file is independent; a failing file is reported as skipped
// and never aborts the scan.
type Scanner struct {
	parser  *tsx.Parser
	driver  *platform.Driver
	logger  *slog.Logger
	metrics Metrics
	opts    Options
}

// New builds a Scanner over the given signature registry.
func New(registry *platform.Registry, logger *slog.Logger, metrics Metrics, opts Options) (*Scanner, error) {
	parser, err := tsx.NewParser()
	if err != nil {
		return nil, fmt.Errorf("init parser: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{
		parser:  parser,
		driver:  platform.NewDriver(registry),
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}, nil
}

// Scan analyzes every supported file under the given roots and returns the
// aggregated summary. Cancellation is honored between files; files already
// in flight are allowed to finish or time out.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*platform.ProjectSummary, error) {
	files, err := CollectFiles(roots, s.parser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scan started", "files", len(files), "workers", s.workers())

	tallies, skipped := s.analyzeAll(ctx, files)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("scan: %w", ctx.Err())
	}

	summary := platform.Aggregate(tallies, skipped)

	s.logger.Info("scan finished",
		"files", len(summary.Files),
		"skipped", len(summary.Skipped),
		"statements", summary.TotalStatements(),
	)

	return summary, nil
}

// AnalyzeSource categorizes a single in-memory source, bypassing discovery.
// The filename selects the grammar and labels the result.
func (s *Scanner) AnalyzeSource(ctx context.Context, filename string, content []byte) (*platform.FileTally, error) {
	tree, err := s.parser.Parse(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	tally := s.driver.TraverseFile(tree.Root(), content, filename)

	s.recordTally(ctx, tally)

	return tally, nil
}

func (s *Scanner) analyzeAll(ctx context.Context, files []string) ([]*platform.FileTally, []platform.FileError) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		tallies []*platform.FileTally
		skipped []platform.FileError
	)

	sem := make(chan struct{}, s.workers())

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			tally, fileErr := s.analyzeFile(ctx, path)

			mu.Lock()
			defer mu.Unlock()

			if fileErr != nil {
				skipped = append(skipped, *fileErr)

				return
			}

			tallies = append(tallies, tally)
		}(path)
	}

	wg.Wait()

	return tallies, skipped
}

// analyzeFile runs one file under the per-file timeout. On timeout the
// worker goroutine is abandoned; it holds only its own parser and will be
// reclaimed if the parse ever returns.
func (s *Scanner) analyzeFile(ctx context.Context, path string) (*platform.FileTally, *platform.FileError) {
	timeout := s.opts.FileTimeout
	if timeout == 0 {
		timeout = defaultFileTimeout
	}

	if timeout < 0 {
		return s.analyzeOne(ctx, path)
	}

	type outcome struct {
		tally   *platform.FileTally
		fileErr *platform.FileError
	}

	started := time.Now()
	results := make(chan outcome, 1)

	go func() {
		tally, fileErr := s.analyzeOne(ctx, path)
		results <- outcome{tally: tally, fileErr: fileErr}
	}()

	select {
	case out := <-results:
		return out.tally, out.fileErr
	case <-time.After(timeout):
		s.logger.Warn("file timed out", "file", path, "timeout", timeout)
		s.recordFile(ctx, outcomeTimeout, time.Since(started))

		return nil, &platform.FileError{
			Path:   path,
			Reason: fmt.Sprintf("analysis timed out after %s", timeout),
		}
	}
}

func (s *Scanner) analyzeOne(ctx context.Context, path string) (*platform.FileTally, *platform.FileError) {
	started := time.Now()

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		s.logger.Warn("file unreadable", "file", path, "error", readErr)
		s.recordFile(ctx, outcomeReadError, time.Since(started))

		return nil, &platform.FileError{Path: path, Reason: readErr.Error()}
	}

	tree, parseErr := s.parser.Parse(ctx, path, content)
	if parseErr != nil {
		s.logger.Warn("file skipped", "file", path, "error", parseErr)
		s.recordFile(ctx, outcomeParseFail, time.Since(started))

		return nil, &platform.FileError{Path: path, Reason: parseErr.Error()}
	}
	defer tree.Close()

	tally := s.driver.TraverseFile(tree.Root(), content, path)

	s.recordFile(ctx, outcomeOK, time.Since(started))
	s.recordTally(ctx, tally)

	return tally, nil
}

func (s *Scanner) workers() int {
	if s.opts.Workers > 0 {
		return s.opts.Workers
	}

	return runtime.NumCPU()
}

func (s *Scanner) recordFile(ctx context.Context, outcome string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordFile(ctx, outcome, elapsed)
}

func (s *Scanner) recordTally(ctx context.Context, tally *platform.FileTally) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordStatements(ctx, platform.CategoryWeb, tally.WebCount)
	s.metrics.RecordStatements(ctx, platform.CategoryNative, tally.NativeCount)
	s.metrics.RecordStatements(ctx, platform.CategoryShared, tally.SharedCount)
}
