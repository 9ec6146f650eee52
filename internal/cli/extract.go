package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/pipeline"
	"github.com/ppiankov/putusan/internal/table"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Stage 2: extract table fields from the cleaned case files",
	Long: `Extract reads every .txt file produced by stage 1, in file-name order,
and writes one spreadsheet row per file with these columns:

  No                 position of the file in the folder
  Nomor Putusan      decision number ending in the court suffix
  Lembaga Peradilan  the court
  Barang Bukti       evidence items, separated by "; "
  Amar Putusan       the operative verdict

A field that cannot be found holds "` + model.NotFound + `".

Example:
  putusan extract
  putusan extract --input ./data/raw --output ./data/processed`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"input":  "paths.raw_dir",
			"output": "paths.processed_dir",
			"table":  "output.table_name",
		})
	},
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	d := model.DefaultConfig()
	extractCmd.Flags().String("input", d.Paths.RawDir, "folder holding the case_NNN.txt files")
	extractCmd.Flags().String("output", d.Paths.ProcessedDir, "folder for the spreadsheet")
	extractCmd.Flags().String("table", d.Output.TableName, "spreadsheet file name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	return extractStage(ctx, s)
}

func extractStage(ctx context.Context, s *session) error {
	cfg := s.cfg
	p := pipeline.NewPipeline(cfg, os.Stderr, s.logger)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Stage 2: Extracting Fields\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", cfg.Paths.RawDir)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Paths.ProcessedDir)
	fmt.Fprintf(os.Stderr, "\n")

	result, err := p.Extract(ctx)
	if err != nil {
		return err
	}

	sum := result.Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Stage 2 Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Files:       %d\n", sum.Files)
	fmt.Fprintf(os.Stderr, "  Rows:        %d\n", sum.Extracted)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", len(sum.Failures))
	fmt.Fprintf(os.Stderr, "  Not found:   nomor %d, barang bukti %d, amar %d\n",
		sum.Missing["nomor_putusan"], sum.Missing["barang_bukti"], sum.Missing["amar_putusan"])
	fmt.Fprintf(os.Stderr, "  Elapsed:     %s\n", sum.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	if result.TablePath == "" {
		fmt.Fprintf(os.Stderr, "⚠️  No documents were processed successfully, no table written\n\n")
		return nil
	}

	if result.Fallback {
		fmt.Fprintf(os.Stderr, "⚠️  %s is not writable (open in another program?)\n",
			cfg.Output.TableName)
	}
	fmt.Fprintf(os.Stderr, "✓ Saved %d rows to %s\n", len(result.Records), result.TablePath)
	fmt.Fprintf(os.Stderr, "  Columns: %v\n\n", table.Columns)
	return nil
}
