// =============================================================================
// EDI 834 Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (edi834)
//   ├── generateCmd (edi834 generate)
//   ├── processCmd  (edi834 process)
//   ├── validateCmd (edi834 validate)
//   ├── serveCmd    (edi834 serve)
//   ├── historyCmd  (edi834 history)
//   ├── templateCmd (edi834 template)
//   └── versionCmd  (edi834 version)
//
// CONFIGURATION:
//   Before any command runs, the root command:
//   1. Loads config.yaml (a missing file yields the defaults)
//   2. Layers EDI834_* environment variables and flags on top with Viper
//   3. Builds the zap logger
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the effective configuration, set by loadConfig.
var appConfig *config.MainConfig

// envPrefix namespaces environment overrides: EDI834_PORT, EDI834_OUTPUT_DIR...
const envPrefix = "EDI834"

// Keys that environment variables and flags may override.
const (
	keyPort      = "port"
	keyOutputDir = "output_dir"
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
	keyHistoryDB = "history_db"
	keyInputDir  = "input_dir"
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "edi834",
	Short: "EDI 834 Generator - Turn enrollment spreadsheets into X12 834 documents",
	Long: `EDI 834 Generator converts tabular member enrollment data (CSV or XLSX)
into ANSI X12 834 Benefit Enrollment and Maintenance documents.

Key Features:
  - Envelope, sponsor, payer and member loops built from one row per member
  - Row validation with every error reported, not just the first
  - Batch conversion of an input directory with bounded concurrency
  - HTTP API and browser UI
  - Delivery to local files or s3:// destinations
  - SQLite ledger of generated documents

Example Usage:
  edi834 generate --input members.xlsx --output out/jan.edi
  edi834 process                        # Convert every file in input_dir
  edi834 validate --input members.csv   # Check rows without generating
  edi834 serve --port 3000`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main(). SIGINT and
// SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the main configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	flags.String("output-dir", "", "Directory for generated documents (overrides output_dir)")
	flags.String("input-dir", "", "Directory scanned by process (overrides input_dir)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: console or json")
	flags.String("history-db", "", `SQLite ledger path, or "off" to disable`)
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// loadConfig builds appConfig and the process logger for every command.
//
// PRECEDENCE:
//
//	defaults < config.yaml < EDI834_* environment < flags
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return err
	}

	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	applyOverrides(cfg, v)
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logging.SetLogger(l)

	appConfig = cfg
	return nil
}

// newViper binds the override keys to EDI834_* variables and to the flags
// that exist on cmd.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		keyOutputDir: "output-dir",
		keyInputDir:  "input-dir",
		keyLogLevel:  "log-level",
		keyLogFormat: "log-format",
		keyHistoryDB: "history-db",
		keyPort:      "port",
	}
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return v, nil
}

// applyOverrides copies set, non-empty values from v onto cfg.
func applyOverrides(cfg *config.MainConfig, v *viper.Viper) {
	str := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	str(keyOutputDir, &cfg.OutputDir)
	str(keyInputDir, &cfg.InputDir)
	str(keyLogLevel, &cfg.LogLevel)
	str(keyLogFormat, &cfg.LogFormat)
	str(keyHistoryDB, &cfg.HistoryDB)

	if port := v.GetInt(keyPort); port != 0 {
		cfg.Port = port
	}
}
