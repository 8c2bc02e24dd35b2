/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate sitecheck configuration",
		Long: `Configuration is layered: built-in defaults, then the site's .sitecheck.yaml
(.yml, .json, .toml or sitecheck.yaml), then SITECHECK_* environment variables.
Lists in a site file replace the defaults rather than extending them.`,
	}

	show := &cobra.Command{
		Use:   "show [site-dir]",
		Short: "Print the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}
	show.Flags().StringP("config", "c", "", "Config file (default: .sitecheck.yaml in the site directory)")
	show.Flags().StringP("format", "f", "yaml", "Output format (yaml|json|toml)")

	validate := &cobra.Command{
		Use:   "validate [site-dir|file]",
		Short: "Validate a site configuration file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}

	cmd.AddCommand(show, validate)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("format")

	cfg, source, err := config.Load(config.LoadOptions{SiteDir: siteArg(args), ConfigFile: configFile})
	if err != nil {
		return exitcode.New(exitcode.ConfigError, err)
	}
	data, err := config.Render(cfg, format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format != "json" {
		fmt.Fprintf(out, "# source: %s\n", source)
	}
	_, err = out.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	opts := config.LoadOptions{SiteDir: siteArg(args)}
	st, err := os.Stat(opts.SiteDir)
	if err != nil {
		return exitcode.New(exitcode.FileSystemError, fmt.Errorf("cannot validate %s: %w", opts.SiteDir, err))
	}
	if !st.IsDir() {
		opts.ConfigFile = opts.SiteDir
		opts.SiteDir = filepath.Dir(opts.SiteDir)
	}

	out := cmd.OutOrStdout()
	_, source, err := config.Load(opts)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(out, "✗ configuration is invalid:")
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
		}
		return exitcode.New(exitcode.ConfigError, err)
	}
	if source == config.SourceDefaults {
		fmt.Fprintf(out, "✓ no site config in %s; %s apply\n", opts.SiteDir, config.SourceDefaults)
		return nil
	}
	fmt.Fprintf(out, "✓ %s is valid\n", source)
	return nil
}
