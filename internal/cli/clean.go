package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/pipeline"
	"github.com/ppiankov/putusan/internal/worker"
)

var (
	filesFrom string
	noCache   bool
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Stage 1: decode and normalize judgments into case_NNN.txt files",
	Long: `Clean decodes every PDF, HTML and text judgment in the input folder,
removes the repository boilerplate and writes one normalized text file per
document, numbered in file-name order.

A failing document is reported and skipped; the run always finishes.

Example:
  putusan clean
  putusan clean --input ./Dataset --output ./data/raw --workers 8
  putusan clean --files-from retry.txt --no-cache`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"input":      "paths.dataset_dir",
			"output":     "paths.raw_dir",
			"workers":    "concurrency.workers",
			"batch-size": "concurrency.batch_size",
			"timeout":    "concurrency.timeout",
		})
	},
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	addCleanFlags(cleanCmd)
}

func addCleanFlags(cmd *cobra.Command) {
	d := model.DefaultConfig()

	cmd.Flags().String("input", d.Paths.DatasetDir, "folder holding the source judgments")
	cmd.Flags().String("output", d.Paths.RawDir, "folder for the case_NNN.txt files")
	cmd.Flags().Int("workers", d.Concurrency.Workers, "number of concurrent workers")
	cmd.Flags().Int("batch-size", d.Concurrency.BatchSize, "documents dispatched per pool round")
	cmd.Flags().Duration("timeout", d.Concurrency.Timeout, "total timeout for stage 1 (0 = none)")
	cmd.Flags().StringVar(&filesFrom, "files-from", "", "process only the files listed here, one per line")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the decoded-text cache")
}

// bindFlags binds the running command's flags only. Several commands
// share keys, and a binding made in init would be overwritten.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// session is what every stage command sets up before running
type session struct {
	cfg    *model.Config
	logger *slog.Logger
	log    io.Closer
}

func newSession() (*session, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	logger, closer, err := setupLogger(cfg.Paths.LogFile, cfg.Output.Verbose)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, log: closer}, nil
}

func (s *session) Close() {
	_ = s.log.Close()
}

// signalContext is cancelled on Ctrl-C, letting workers finish their
// current document
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runClean(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	_, err = cleanStage(ctx, s)
	if errors.Is(err, pipeline.ErrNoInput) {
		return nil
	}
	return err
}

func cleanStage(ctx context.Context, s *session) (*pipeline.CleanResult, error) {
	cfg := s.cfg
	p := pipeline.NewPipeline(cfg, os.Stderr, s.logger)

	var files []model.SourceFile
	if filesFrom != "" {
		var err error
		files, err = worker.ReadFileList(filesFrom, cfg.Paths.DatasetDir, p.Supports)
		if err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Stage 1: Cleaning Judgments\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", cfg.Paths.DatasetDir)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Paths.RawDir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Batch size:   %d\n", cfg.Concurrency.BatchSize)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "  Log file:     %s\n", cfg.Paths.LogFile)
	fmt.Fprintf(os.Stderr, "\n")

	result, err := p.Clean(ctx, files)
	if errors.Is(err, pipeline.ErrNoInput) {
		fmt.Fprintf(os.Stderr, "⚠️  No supported files (%s) found in %s\n\n", strings.Join(p.SupportedExtensions(), ", "), cfg.Paths.DatasetDir)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	sum := result.Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Stage 1 Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:          %d files\n", sum.Total)
	fmt.Fprintf(os.Stderr, "  Success:        %d\n", sum.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:       %d\n", sum.Failed)
	fmt.Fprintf(os.Stderr, "  Chars removed:  %d\n", sum.Stats.CharsRemoved)
	fmt.Fprintf(os.Stderr, "  Lines removed:  %d\n", sum.Stats.LinesRemoved)
	if cfg.Cache.Enabled {
		fmt.Fprintf(os.Stderr, "  Cache hits:     %d/%d\n", result.CacheHits, result.CacheHits+result.CacheMisses)
	}
	fmt.Fprintf(os.Stderr, "  Elapsed:        %s\n", sum.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Output:         %s\n", cfg.Paths.RawDir)
	fmt.Fprintf(os.Stderr, "\n")

	for _, f := range sum.Failures {
		fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", f.Source.Name, f.Err)
	}
	if sum.Failed > 0 {
		fmt.Fprintf(os.Stderr, "\n")
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("stage 1 interrupted: %w", err)
	}
	return result, nil
}
