package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/putusan/internal/model"
)

// ErrNotCompleted marks documents the run stopped before processing
var ErrNotCompleted = errors.New("not processed: run cancelled")

// Processor handles one document end to end and reports what it removed
type Processor interface {
	Process(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error)
}

// ProcessorFunc adapts a function to the Processor interface
type ProcessorFunc func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error)

// Process calls f
func (f ProcessorFunc) Process(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
	return f(ctx, src)
}

// FileJob processes a single source file
type FileJob struct {
	Source    model.SourceFile
	Processor Processor
}

// Execute runs the processor. A panic inside it becomes this file's error
// so the result can still be attributed.
func (j *FileJob) Execute(ctx context.Context) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = &FileResult{
				Source:  j.Source,
				Err:     fmt.Errorf("panic: %v", r),
				Elapsed: time.Since(start),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return &FileResult{Source: j.Source, Err: err}
	}

	stats, err := j.Processor.Process(ctx, j.Source)
	return &FileResult{
		Source:  j.Source,
		Stats:   stats,
		Err:     err,
		Elapsed: time.Since(start),
	}
}

// FileResult is the outcome of one FileJob. Stats is that document's own
// delta, reduced by the runner after the pool drains.
type FileResult struct {
	Source  model.SourceFile
	Stats   model.ProcessingStats
	Err     error
	Elapsed time.Duration
}

// GetError returns the processing error
func (r *FileResult) GetError() error {
	return r.Err
}

// Failure records a document that could not be processed
type Failure struct {
	Source model.SourceFile
	Err    error
}

// Summary aggregates a whole run
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
	Stats     model.ProcessingStats
	Elapsed   time.Duration
}

func (s *Summary) record(r *FileResult) {
	if r.Err != nil {
		s.Failed++
		s.Failures = append(s.Failures, Failure{Source: r.Source, Err: r.Err})
		return
	}
	s.Succeeded++
	s.Stats.Add(r.Stats)
}

// BatchRunner runs a Processor over many documents on a bounded pool
type BatchRunner struct {
	processor Processor
	workers   int
	batchSize int
	progress  *Progress
	logger    *slog.Logger
}

// NewBatchRunner creates a runner. progress may be nil.
func NewBatchRunner(processor Processor, cfg model.ConcurrencyConfig, progress *Progress, logger *slog.Logger) *BatchRunner {
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = workers
	}

	return &BatchRunner{
		processor: processor,
		workers:   workers,
		batchSize: batchSize,
		progress:  progress,
		logger:    logger,
	}
}

// Run processes files in chunks of batchSize. Per-document failures are
// collected and never stop the run; cancelling ctx marks the remaining
// documents as not completed.
func (b *BatchRunner) Run(ctx context.Context, files []model.SourceFile) *Summary {
	start := time.Now()
	summary := &Summary{Total: len(files)}

	b.logger.Info("batch started", "files", len(files), "workers", b.workers, "batch_size", b.batchSize)

	for lo := 0; lo < len(files); lo += b.batchSize {
		hi := min(lo+b.batchSize, len(files))
		b.runChunk(ctx, files[lo:hi], summary)
	}

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Source.Seq < summary.Failures[j].Source.Seq
	})
	summary.Elapsed = time.Since(start)

	b.logger.Info("batch finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"chars_removed", summary.Stats.CharsRemoved,
		"lines_removed", summary.Stats.LinesRemoved,
		"elapsed", summary.Elapsed)

	return summary
}

func (b *BatchRunner) runChunk(ctx context.Context, chunk []model.SourceFile, summary *Summary) {
	pool := NewPool(ctx, b.workers)
	pool.Start()

	go func() {
		defer pool.Close()
		for _, src := range chunk {
			if !pool.Submit(&FileJob{Source: src, Processor: b.processor}) {
				return
			}
		}
	}()

	seen := make(map[int]bool, len(chunk))
	pool.Drain(func(r Result) {
		fr, ok := r.(*FileResult)
		if !ok {
			b.logger.Error("unattributed job failure", "error", r.GetError())
			return
		}
		seen[fr.Source.Seq] = true
		summary.record(fr)
		b.report(fr)
	})

	for _, src := range chunk {
		if seen[src.Seq] {
			continue
		}
		fr := &FileResult{Source: src, Err: ErrNotCompleted}
		summary.record(fr)
		b.report(fr)
	}
}

func (b *BatchRunner) report(r *FileResult) {
	if r.Err != nil {
		b.logger.Error("failed to process document", "file", r.Source.Name, "seq", r.Source.Seq, "error", r.Err)
	} else {
		b.logger.Info("processed document", "file", r.Source.Name, "seq", r.Source.Seq,
			"chars_removed", r.Stats.CharsRemoved, "lines_removed", r.Stats.LinesRemoved, "elapsed", r.Elapsed)
	}
	if b.progress != nil {
		b.progress.Done(r)
	}
}

// Enumerate lists the files in dir accepted by supports, in lexical
// order, numbered from 1
func Enumerate(dir string, supports func(name string) bool) ([]model.SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []model.SourceFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !supports(entry.Name()) {
			continue
		}
		files = append(files, model.SourceFile{
			Seq:  len(files) + 1,
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return files, nil
}

// ReadFileList reads document paths from a list file (one per line, "#"
// comments allowed). Relative paths resolve against baseDir, duplicates
// are dropped and numbering follows the list order.
func ReadFileList(listPath, baseDir string, supports func(name string) bool) ([]model.SourceFile, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var files []model.SourceFile
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !supports(line) {
			return nil, fmt.Errorf("file list entry %q: unsupported document type", line)
		}

		path := line
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if seen[path] {
			continue
		}
		seen[path] = true

		files = append(files, model.SourceFile{
			Seq:  len(files) + 1,
			Name: filepath.Base(path),
			Path: path,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file list: %w", err)
	}

	return files, nil
}
