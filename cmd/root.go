// =============================================================================
// Fixture Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fixtures)
//   ├── serveCmd   (fixtures serve)
//   ├── convertCmd (fixtures convert)
//   ├── gradesCmd  (fixtures grades)
//   └── versionCmd (fixtures version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading .env and the main configuration file
//   3. Building the logger and attaching it to the command context
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wscc/fixture-converter/internal/config"
	"github.com/wscc/fixture-converter/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the loaded configuration, set before any subcommand runs.
var appConfig *config.MainConfig

// dotenvErr remembers why .env was not loaded, for logging once the logger
// exists.
var dotenvErr error

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Fixture Converter - Turn cricket fixture exports into calendar imports",
	Long: `Fixture Converter reads the fixture export of a cricket competition
(CSV or XLSX) and writes a calendar-import file with one event per fixture.

It runs either as a small web service with an upload page and a preview step,
or as a command-line tool for converting files directly.

Example Usage:
  fixtures serve                                # Start the web service on :8080
  fixtures convert fixtures.csv                 # Write converted_fixtures.csv
  fixtures convert fixtures.xlsx --format xlsx  # Convert a workbook to a workbook
  fixtures grades fixtures.csv                  # List the grades in an export`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile, os.Getenv)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err := logging.New(os.Stderr, level, cfg.Log.Format)
		if err != nil {
			return err
		}

		if dotenvErr != nil {
			logger.Debug().Err(dotenvErr).Msg("no .env file loaded")
		}
		logger.Debug().Str("config", cfgFile).Msg("configuration loaded")

		appConfig = cfg
		cmd.SetContext(logger.WithContext(commandContext(cmd)))
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// commandContext returns the command context, or a background context if
// the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loggerFrom returns the logger attached by the root command.
func loggerFrom(cmd *cobra.Command) *zerolog.Logger {
	return zerolog.Ctx(commandContext(cmd))
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags and configuration initialization.
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads variables from a .env file into the environment.
// Variables already set in the environment take precedence.
func initConfig() {
	dotenvErr = godotenv.Load()
}
