package pipeline

import (
	"context"
	"log/slog"

	"github.com/ppiankov/putusan/internal/cache"
	"github.com/ppiankov/putusan/internal/decode"
	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/normalize"
)

// CleanStage is the stage-1 per-document processor: load, decode (through
// the cache), normalize and write the artifact.
type CleanStage struct {
	loader     *Loader
	decoders   *decode.Registry
	cache      *cache.TextCache
	normalizer *normalize.Normalizer
	outDir     string
	logger     *slog.Logger
}

// NewCleanStage wires the stage-1 dependencies. cache may be nil.
func NewCleanStage(loader *Loader, decoders *decode.Registry, textCache *cache.TextCache,
	normalizer *normalize.Normalizer, outDir string, logger *slog.Logger) *CleanStage {
	if logger == nil {
		logger = slog.Default()
	}
	if textCache == nil {
		textCache = cache.NewTextCache(nil)
	}
	return &CleanStage{
		loader:     loader,
		decoders:   decoders,
		cache:      textCache,
		normalizer: normalizer,
		outDir:     outDir,
		logger:     logger,
	}
}

// Supports reports whether name can be decoded
func (s *CleanStage) Supports(name string) bool {
	return s.decoders.Supports(name)
}

// Clean processes one source file and returns the written document with
// the characters and lines normalization removed from it
func (s *CleanStage) Clean(ctx context.Context, src model.SourceFile) (*model.CleanedDocument, model.ProcessingStats, error) {
	raw, err := s.decode(ctx, src)
	if err != nil {
		return nil, model.ProcessingStats{}, err
	}

	cleaned, stats := s.normalizer.Clean(raw.Text)

	doc := &model.CleanedDocument{
		CaseID:   src.Seq,
		Filename: src.Name,
		Text:     cleaned,
	}
	path, err := WriteArtifact(s.outDir, *doc)
	if err != nil {
		return nil, model.ProcessingStats{}, err
	}

	s.logger.Debug("wrote artifact", "file", src.Name, "artifact", path, "chars", len(cleaned))
	return doc, stats, nil
}

// Process implements worker.Processor
func (s *CleanStage) Process(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
	_, stats, err := s.Clean(ctx, src)
	return stats, err
}

func (s *CleanStage) decode(ctx context.Context, src model.SourceFile) (model.RawDocument, error) {
	data, err := s.loader.Load(ctx, src.Path)
	if err != nil {
		return model.RawDocument{}, err
	}

	if text, ok := s.cache.Lookup(data); ok {
		s.logger.Debug("decoded text from cache", "file", src.Name)
		return model.RawDocument{Source: src.Name, Text: text}, nil
	}

	text, err := s.decoders.Decode(ctx, src.Name, data)
	if err != nil {
		return model.RawDocument{}, err
	}

	if err := s.cache.Remember(data, text); err != nil {
		s.logger.Warn("failed to cache decoded text", "file", src.Name, "error", err)
	}
	return model.RawDocument{Source: src.Name, Text: text}, nil
}

// CacheCounts reports decoded-text cache hits and misses
func (s *CleanStage) CacheCounts() (hits, misses int64) {
	return s.cache.Counts()
}
