package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/putusan/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "putusan",
	Short: "Putusan - court judgment cleaning & field extraction",
	Long: `Putusan turns published Indonesian court judgments into a table.

Stage 1 (clean) decodes PDF, HTML and text judgments, strips the
repository boilerplate and writes one normalized text file per case.

Stage 2 (extract) reads those files and recovers the decision number,
the court, the evidence enumeration and the operative verdict into a
spreadsheet, one row per case.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("putusan " + Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.putusan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "log file (default: logs/cleaning.log)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("paths.log_file", rootCmd.PersistentFlags().Lookup("log"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".putusan"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps PUTUSAN_CONCURRENCY_WORKERS onto concurrency.workers and so on
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PUTUSAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key, which also lets AutomaticEnv see keys
// that appear in neither flags nor the config file
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("paths.dataset_dir", d.Paths.DatasetDir)
	v.SetDefault("paths.raw_dir", d.Paths.RawDir)
	v.SetDefault("paths.processed_dir", d.Paths.ProcessedDir)
	v.SetDefault("paths.log_file", d.Paths.LogFile)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("concurrency.batch_size", d.Concurrency.BatchSize)
	v.SetDefault("concurrency.timeout", d.Concurrency.Timeout)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("decode.max_file_bytes", d.Decode.MaxFileBytes)

	v.SetDefault("normalize.boilerplate_prefixes", d.Normalize.BoilerplatePrefixes)
	v.SetDefault("normalize.paragraph_keywords", d.Normalize.ParagraphKeywords)
	v.SetDefault("normalize.escape_tokens", d.Normalize.EscapeTokens)
	v.SetDefault("normalize.short_line_max_words", d.Normalize.ShortLineMaxWords)

	v.SetDefault("extract.court_name", d.Extract.CourtName)
	v.SetDefault("extract.evidence_limit", d.Extract.EvidenceLimit)
	v.SetDefault("extract.verdict_limit", d.Extract.VerdictLimit)
	v.SetDefault("extract.verdict_window", d.Extract.VerdictWindow)

	v.SetDefault("output.table_name", d.Output.TableName)
	v.SetDefault("output.sheet_name", d.Output.SheetName)
	v.SetDefault("output.verbose", d.Output.Verbose)
}

// loadConfig resolves flags > env > config file > defaults into one value
func loadConfig(v *viper.Viper) (*model.Config, error) {
	setDefaults(v, model.DefaultConfig())

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger opens the run log. Records go to the file only, the console
// carries the progress lines.
func setupLogger(path string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}
