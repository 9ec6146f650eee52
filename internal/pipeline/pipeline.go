// Package pipeline wires the two stages: stage 1 turns source judgments
// into cleaned text files, stage 2 turns those files into table rows.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ppiankov/putusan/internal/cache"
	"github.com/ppiankov/putusan/internal/decode"
	"github.com/ppiankov/putusan/internal/extract"
	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/normalize"
	"github.com/ppiankov/putusan/internal/table"
	"github.com/ppiankov/putusan/internal/worker"
)

// ErrNoInput is returned when the input directory holds no supported file
var ErrNoInput = errors.New("no supported files found in the input folder")

// Pipeline builds each stage from one configuration value
type Pipeline struct {
	config *model.Config
	out    io.Writer
	logger *slog.Logger
}

// NewPipeline creates a pipeline; console lines go to out
func NewPipeline(cfg *model.Config, out io.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{config: cfg, out: out, logger: logger}
}

// CleanResult is the outcome of stage 1
type CleanResult struct {
	Summary     *worker.Summary
	CacheHits   int64
	CacheMisses int64
}

// NewCleanStage builds the stage-1 processor from the configuration
func (p *Pipeline) NewCleanStage() *CleanStage {
	cfg := p.config
	return NewCleanStage(
		NewLoader(cfg.Decode.MaxFileBytes),
		decode.NewRegistry(),
		cache.NewTextCache(cache.New(cfg.Cache)),
		normalize.New(cfg.Normalize),
		cfg.Paths.RawDir,
		p.logger,
	)
}

// Clean runs stage 1 over files, or over the dataset directory when files
// is empty
func (p *Pipeline) Clean(ctx context.Context, files []model.SourceFile) (*CleanResult, error) {
	stage := p.NewCleanStage()

	if len(files) == 0 {
		var err error
		files, err = worker.Enumerate(p.config.Paths.DatasetDir, stage.Supports)
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		p.logger.Warn("no supported files found", "dir", p.config.Paths.DatasetDir)
		return nil, ErrNoInput
	}

	if timeout := p.config.Concurrency.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	progress := worker.NewProgress(p.out, len(files), 500*time.Millisecond)
	runner := worker.NewBatchRunner(stage, p.config.Concurrency, progress, p.logger)
	summary := runner.Run(ctx, files)

	hits, misses := stage.CacheCounts()
	return &CleanResult{Summary: summary, CacheHits: hits, CacheMisses: misses}, nil
}

// ExtractResult is the outcome of stage 2
type ExtractResult struct {
	Records   []model.ExtractionRecord
	Summary   *ExtractSummary
	TablePath string // empty when nothing was written
	Fallback  bool   // the table went to the timestamped alternate name
}

// Extract runs stage 2 and writes the table. No successfully processed
// document is not an error: the result simply has no TablePath.
func (p *Pipeline) Extract(ctx context.Context) (*ExtractResult, error) {
	cfg := p.config
	stage := NewExtractStage(extract.New(cfg.Extract), p.out, p.logger)

	records, summary, err := stage.Run(ctx, cfg.Paths.RawDir)
	if err != nil {
		return nil, err
	}

	result := &ExtractResult{Records: records, Summary: summary}
	if len(records) == 0 {
		p.logger.Warn("no documents were processed successfully", "dir", cfg.Paths.RawDir)
		return result, nil
	}

	target := filepath.Join(cfg.Paths.ProcessedDir, cfg.Output.TableName)
	written, err := table.NewWriter(cfg.Output.SheetName).Write(records, target)
	if err != nil {
		return result, fmt.Errorf("write table: %w", err)
	}

	result.TablePath = written
	result.Fallback = written != target
	p.logger.Info("wrote table", "path", written, "rows", len(records), "fallback", result.Fallback)
	return result, nil
}

// SupportedExtensions lists the source extensions stage 1 decodes
func (p *Pipeline) SupportedExtensions() []string {
	return decode.NewRegistry().Extensions()
}

// Supports reports whether stage 1 can decode name
func (p *Pipeline) Supports(name string) bool {
	return decode.NewRegistry().Supports(name)
}
