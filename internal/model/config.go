package model

import (
	"fmt"
	"time"
)

// Config is the complete run configuration. It is built once by the CLI
// and handed to every stage explicitly.
type Config struct {
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Decode      DecodeConfig      `yaml:"decode" mapstructure:"decode"`
	Normalize   NormalizeConfig   `yaml:"normalize" mapstructure:"normalize"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// PathsConfig holds every filesystem location the two stages touch
type PathsConfig struct {
	DatasetDir   string `yaml:"dataset_dir" mapstructure:"dataset_dir"`     // stage-1 input (PDF, HTML, TXT judgments)
	RawDir       string `yaml:"raw_dir" mapstructure:"raw_dir"`             // stage-1 output, stage-2 input
	ProcessedDir string `yaml:"processed_dir" mapstructure:"processed_dir"` // stage-2 table directory
	LogFile      string `yaml:"log_file" mapstructure:"log_file"`
}

// ConcurrencyConfig sizes the stage-1 worker pool
type ConcurrencyConfig struct {
	Workers   int           `yaml:"workers" mapstructure:"workers"`
	BatchSize int           `yaml:"batch_size" mapstructure:"batch_size"` // documents dispatched per pool round
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`       // whole stage-1 run, 0 means none
}

// CacheConfig controls the decoded-text cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// DecodeConfig limits what the decoders are given
type DecodeConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
}

// NormalizeConfig holds the line-reclassification vocabulary.
// The short-line threshold and escape tokens are corpus-tuned heuristics.
type NormalizeConfig struct {
	BoilerplatePrefixes []string `yaml:"boilerplate_prefixes" mapstructure:"boilerplate_prefixes"`
	ParagraphKeywords   []string `yaml:"paragraph_keywords" mapstructure:"paragraph_keywords"`
	EscapeTokens        []string `yaml:"escape_tokens" mapstructure:"escape_tokens"`
	ShortLineMaxWords   int      `yaml:"short_line_max_words" mapstructure:"short_line_max_words"`
}

// ExtractConfig holds field-extraction limits
type ExtractConfig struct {
	CourtName     string `yaml:"court_name" mapstructure:"court_name"`
	EvidenceLimit int    `yaml:"evidence_limit" mapstructure:"evidence_limit"`
	VerdictLimit  int    `yaml:"verdict_limit" mapstructure:"verdict_limit"`
	VerdictWindow int    `yaml:"verdict_window" mapstructure:"verdict_window"`
}

// OutputConfig controls the stage-2 table and console output
type OutputConfig struct {
	TableName string `yaml:"table_name" mapstructure:"table_name"`
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the defaults used when no file, env or flag overrides a key
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DatasetDir:   "Dataset",
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			LogFile:      "logs/cleaning.log",
		},
		Concurrency: ConcurrencyConfig{
			Workers:   4,
			BatchSize: 10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".putusan-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Decode: DecodeConfig{
			MaxFileBytes: 64 << 20,
		},
		Normalize: DefaultNormalizeConfig(),
		Extract: ExtractConfig{
			CourtName:     "PN YOGYAKARTA",
			EvidenceLimit: 1500,
			VerdictLimit:  3000,
			VerdictWindow: 4000,
		},
		Output: OutputConfig{
			TableName: "putusan_summary.xlsx",
			SheetName: "Putusan",
		},
	}
}

// DefaultNormalizeConfig returns the boilerplate vocabulary observed in
// judgments published on the Supreme Court directory.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		BoilerplatePrefixes: []string{
			"mahkamah agung republik indonesia", "direktori putusan", "hkama",
			"salinan putusan", "putusan.mahkamahagung.go.id", "halaman",
			"email kepaniteraanmahkamahagunggoid", "telp", "fax", "website",
			"ahkamah agung", "mah agung republik indonesia", "blik indonesi",
		},
		ParagraphKeywords: []string{
			"menimbang bahwa", "membaca", "mengadili", "memutuskan",
			"terdakwa", "menyatakan", "menjatuhkan", "memperhatikan",
		},
		EscapeTokens:      []string{"pidana", "menjatuhkan"},
		ShortLineMaxWords: 6,
	}
}

// Validate reports the first configuration value no stage can work with
func (c *Config) Validate() error {
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}
	if c.Concurrency.BatchSize <= 0 {
		return fmt.Errorf("concurrency.batch_size must be positive, got %d", c.Concurrency.BatchSize)
	}
	if c.Concurrency.Timeout < 0 {
		return fmt.Errorf("concurrency.timeout must not be negative, got %v", c.Concurrency.Timeout)
	}
	if c.Decode.MaxFileBytes <= 0 {
		return fmt.Errorf("decode.max_file_bytes must be positive, got %d", c.Decode.MaxFileBytes)
	}
	if c.Normalize.ShortLineMaxWords < 0 {
		return fmt.Errorf("normalize.short_line_max_words must not be negative, got %d", c.Normalize.ShortLineMaxWords)
	}
	// "..." needs room inside the limit
	if c.Extract.EvidenceLimit < 4 || c.Extract.VerdictLimit < 4 {
		return fmt.Errorf("extract limits must be at least 4 characters")
	}
	if c.Extract.VerdictWindow < c.Extract.VerdictLimit {
		return fmt.Errorf("extract.verdict_window (%d) must not be smaller than extract.verdict_limit (%d)",
			c.Extract.VerdictWindow, c.Extract.VerdictLimit)
	}
	if c.Output.TableName == "" {
		return fmt.Errorf("output.table_name must not be empty")
	}
	return nil
}
