// =============================================================================
// Portfolio Import - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (patimport)
//   ├── importCmd  (patimport import)
//   ├── convertCmd (patimport convert)
//   ├── schemaCmd  (patimport schema)
//   └── versionCmd (patimport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clemsmoz/startingbloch-sub005/internal/config"
	"github.com/clemsmoz/startingbloch-sub005/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and logger are set by loadRuntime before a subcommand runs.
var (
	appConfig *config.MainConfig
	logger    = logging.Nop()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "patimport",

	Short: "Patent portfolio import - turn portfolio spreadsheets into patent families",

	Long: `patimport reads the patent portfolio spreadsheets kept by IP firms (one row
per national filing, merged cells for the family data) and turns them into
patent families, each holding its deposits with normalized dates, a country
code and canonical filing, publication and grant numbers.

Key Features:
  - Header detection tolerant to French/English labels, accents and spacing
  - Forward-fill of merged family cells
  - Canonical patent numbers for FR, EP, WO/PCT, US, BR, IN and generic offices
  - JSON, XML or XLSX exports with a well-formedness check log
  - Concurrent import of several files

Example Usage:
  patimport import                          # Import every file of the input directory
  patimport import portfolio.xlsx --format xml
  patimport convert --kind depot FR9912345  # Canonicalize a single number`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRuntime()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime loads the configuration and builds the logger.
func loadRuntime() error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return err
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFile, verbose)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logger.Debug("configuration loaded", zap.String("path", cfgFile))
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// A missing config.yaml in the current directory means defaults.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
