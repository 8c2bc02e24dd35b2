/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/sitecheck/internal/verify"
	"github.com/fulmenhq/sitecheck/pkg/buildinfo"
	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/fulmenhq/sitecheck/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecheck [site-dir]",
		Short: "Verify a built PWA site before publishing",
		Long: `Sitecheck verifies a built static PWA before it is published: required files
and directories, the web app manifest, and required markers in the service
worker, HTML entry point and main script. Every problem is collected in one
report and a failed verification exits with status 3.

Examples:
   sitecheck                   # Verify the current directory (same as 'sitecheck verify')
   sitecheck verify dist       # Verify ./dist
   sitecheck verify --watch    # Re-verify on every change
   sitecheck icons             # Show the icon resize plan
   sitecheck config show       # Print the effective configuration`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runVerify,
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// The root command runs verify, so it carries the same flags.
	addVerifyFlags(cmd)

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("sitecheck {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newVerifyCommand())
	cmd.AddCommand(newIconsCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the root command and exits with the code carried by the
// returned error (GeneralError when it carries none).
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	code := exitCode(err)
	if code == exitcode.VerificationFail {
		logger.Debug("verification failed", logger.Err(err))
	} else {
		logger.Error("Command execution failed", logger.Err(err))
	}
	os.Exit(code)
}

func exitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var coded *exitcode.Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return exitcode.GeneralError
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  verify.ColorEnabled(os.Stderr, noColor),
		JSON:      jsonLogs,
		Component: "sitecheck",
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
