// =============================================================================
// GRN Comparison Tool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (grncompare)
//   ├── compareCmd (grncompare compare)
//   ├── serveCmd   (grncompare serve)
//   └── versionCmd (grncompare version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the YAML configuration (defaults when config.yaml is absent)
//   2. Applies GRNCOMPARE_* environment overrides (.env is read if present)
//   3. Sets up structured logging (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/grn-comparison/internal/config"
	"github.com/ginjaninja78/grn-comparison/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded before a subcommand runs.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "grncompare",
	Short: "GRN Comparison Tool - Compare old and new GRN register exports",
	Long: `GRN Comparison Tool compares two exports of the GRN register (an "old" and
a "new" spreadsheet) on the invoice number and produces three reports:

  new     - GRNs present only in the new export
  status  - the full new export with an Old/New status column
  amount  - GRNs present in both whose total changed

Example Usage:
  grncompare compare --old jan.xlsx --new feb.xlsx --report all
  grncompare serve --addr :8080`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if msg := exitMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// reportedError marks an error whose message a command already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// exitMessage returns the line printed for a failed command, or "" when the
// command already reported the error itself.
func exitMessage(err error) string {
	var reported *reportedError
	if errors.As(err, &reported) {
		return ""
	}
	return "Error: " + err.Error()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file; defaults apply when the default file is absent",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and sets up logging.
// An explicitly named config file must exist. GRNCOMPARE_* variables, from
// the environment or a .env file, override the file.
func initConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	var err error
	if cmd.Flags().Changed("config") {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(appConfig); err != nil {
		return err
	}

	level := appConfig.Logging.Level
	if verbose {
		level = "debug"
	}
	logging.Setup(level, appConfig.Logging.Format)
	return nil
}
