package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/putusan/internal/extract"
	"github.com/ppiankov/putusan/internal/model"
)

// ExtractFailure is a stage-1 file that produced no record
type ExtractFailure struct {
	Name string
	Err  error
}

// ExtractSummary aggregates a stage-2 run
type ExtractSummary struct {
	Files     int
	Extracted int
	Failures  []ExtractFailure
	Missing   map[string]int // per column, rows holding the not-found sentinel
	Elapsed   time.Duration
}

// ExtractStage runs the field extractor over stage-1 files, one at a time
type ExtractStage struct {
	extractor *extract.FieldExtractor
	out       io.Writer
	logger    *slog.Logger
}

// NewExtractStage creates the stage; per-file status lines go to out
func NewExtractStage(extractor *extract.FieldExtractor, out io.Writer, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &ExtractStage{extractor: extractor, out: out, logger: logger}
}

// Run extracts one record per *.txt file in dir, in lexical order. A
// record's No is the file's 1-based position; unreadable files are
// reported and skipped.
func (s *ExtractStage) Run(ctx context.Context, dir string) ([]model.ExtractionRecord, *ExtractSummary, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read stage-1 dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}

	summary := &ExtractSummary{
		Files:   len(names),
		Missing: make(map[string]int),
	}
	var records []model.ExtractionRecord

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return records, summary, err
		}

		rec, err := s.extractFile(i+1, filepath.Join(dir, name))
		if err != nil {
			summary.Failures = append(summary.Failures, ExtractFailure{Name: name, Err: err})
			s.logger.Error("failed to extract fields", "file", name, "error", err)
			fmt.Fprintf(s.out, "❌ Error processing %s: %v\n", name, err)
			continue
		}

		records = append(records, rec)
		summary.Extracted++
		countMissing(summary.Missing, rec)
		s.logger.Info("extracted fields", "file", name, "no", rec.No, "nomor_putusan", rec.CaseNumber)
		fmt.Fprintf(s.out, "✔️ Processed %s\n", name)
	}

	summary.Elapsed = time.Since(start)
	return records, summary, nil
}

func (s *ExtractStage) extractFile(no int, path string) (rec model.ExtractionRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExtractionRecord{}, fmt.Errorf("read artifact: %w", err)
	}

	text := string(data)
	doc, err := ParseArtifact(text)
	switch {
	case err == nil:
		text = doc.Text
	case errors.Is(err, ErrBadArtifact):
		// hand-placed text files carry no header
		s.logger.Debug("no artifact header, using whole file", "file", filepath.Base(path))
	default:
		return model.ExtractionRecord{}, err
	}

	return s.extractor.Extract(no, text), nil
}

func countMissing(missing map[string]int, rec model.ExtractionRecord) {
	if rec.CaseNumber == model.NotFound {
		missing["nomor_putusan"]++
	}
	if rec.Evidence == model.NotFound {
		missing["barang_bukti"]++
	}
	if rec.Verdict == model.NotFound {
		missing["amar_putusan"]++
	}
}
