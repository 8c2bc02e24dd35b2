/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/sitecheck/internal/verify"
	"github.com/fulmenhq/sitecheck/internal/watch"
	"github.com/fulmenhq/sitecheck/pkg/buildinfo"
	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/fulmenhq/sitecheck/pkg/logger"
	"github.com/spf13/cobra"
)

var errVerificationFailed = errors.New("verification failed")

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [site-dir]",
		Short: "Check a built site for required files, manifest and content markers",
		Long: `Verify runs every configured check against the site directory (default: the
current directory) and prints one report. Missing files, empty directories,
an invalid manifest and missing content markers are all collected; none of
them stops the run.

Exit codes: 0 passed, 2 configuration error, 3 verification failed,
4 site directory missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}
	addVerifyFlags(cmd)
	return cmd
}

func addVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(verify.FormatPretty), "Output format (pretty|concise|json|yaml|markdown)")
	cmd.Flags().Int("concurrency", 1, "Number of concurrent checks (0 = one per CPU)")
	cmd.Flags().StringP("config", "c", "", "Config file (default: .sitecheck.yaml in the site directory)")
	cmd.Flags().BoolP("watch", "w", false, "Re-run verification whenever files under the site change")
}

func siteArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func runVerify(cmd *cobra.Command, args []string) error {
	site := siteArg(args)
	formatStr, _ := cmd.Flags().GetString("format")
	configFile, _ := cmd.Flags().GetString("config")
	watchMode, _ := cmd.Flags().GetBool("watch")
	noColor, _ := cmd.Flags().GetBool("no-color")

	format, err := verify.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	formatter := verify.NewFormatter(format, verify.ColorEnabled(out, noColor))
	opts := config.LoadOptions{SiteDir: site, ConfigFile: configFile, Flags: cmd.Flags()}

	if !watchMode {
		return verifyOnce(cmd.Context(), out, formatter, site, opts)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if st, err := os.Stat(site); err != nil || !st.IsDir() {
		return exitcode.Errorf(exitcode.FileSystemError, "%v: %s", verify.ErrSiteRoot, site)
	}
	w, err := watch.New(site, 0)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", site, err)
	}
	defer func() { _ = w.Close() }()

	logger.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", site))
	return w.Run(ctx, func(ctx context.Context) {
		err := verifyOnce(ctx, out, formatter, site, opts)
		switch {
		case err == nil, ctx.Err() != nil:
		case errors.Is(err, errVerificationFailed):
			logger.Info("Verification failed; waiting for changes")
		default:
			logger.Error("Verification run failed", logger.Err(err))
		}
	})
}

// verifyOnce loads configuration fresh, runs the engine and writes the report.
func verifyOnce(ctx context.Context, out io.Writer, formatter *verify.Formatter, site string, opts config.LoadOptions) error {
	cfg, source, err := config.Load(opts)
	if err != nil {
		return exitcode.New(exitcode.ConfigError, err)
	}
	logger.Debug("configuration loaded", logger.String("source", source))

	report, err := verify.NewEngine(site, cfg, source, buildinfo.BinaryVersion).Run(ctx)
	if err != nil {
		if errors.Is(err, verify.ErrSiteRoot) {
			return exitcode.New(exitcode.FileSystemError, err)
		}
		return err
	}
	if err := formatter.WriteReport(out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !report.Summary.Passed {
		return exitcode.New(exitcode.VerificationFail, errVerificationFailed)
	}
	return nil
}
