package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run both stages: clean, then extract",
	Long: `Run executes stage 1 and, once it has finished, stage 2 over its output.

Example:
  putusan run
  putusan run --input ./Dataset --workers 8 --output ./data/processed`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"input":      "paths.dataset_dir",
			"raw":        "paths.raw_dir",
			"output":     "paths.processed_dir",
			"table":      "output.table_name",
			"workers":    "concurrency.workers",
			"batch-size": "concurrency.batch_size",
			"timeout":    "concurrency.timeout",
		})
	},
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := model.DefaultConfig()
	runCmd.Flags().String("input", d.Paths.DatasetDir, "folder holding the source judgments")
	runCmd.Flags().String("raw", d.Paths.RawDir, "folder for the case_NNN.txt files")
	runCmd.Flags().String("output", d.Paths.ProcessedDir, "folder for the spreadsheet")
	runCmd.Flags().String("table", d.Output.TableName, "spreadsheet file name")
	runCmd.Flags().Int("workers", d.Concurrency.Workers, "number of concurrent workers")
	runCmd.Flags().Int("batch-size", d.Concurrency.BatchSize, "documents dispatched per pool round")
	runCmd.Flags().Duration("timeout", d.Concurrency.Timeout, "total timeout for stage 1 (0 = none)")
	runCmd.Flags().StringVar(&filesFrom, "files-from", "", "process only the files listed here, one per line")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the decoded-text cache")
}

func runAll(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	if _, err := cleanStage(ctx, s); err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			return nil
		}
		return err
	}
	return extractStage(ctx, s)
}
