/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/sitecheck/internal/icons"
	"github.com/fulmenhq/sitecheck/internal/verify"
	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newIconsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons [site-dir]",
		Short: "Show the plan for generating PNG icons from the source SVG",
		Long: `Icons inspects the source SVG (icons.source) and lists every PNG the site
needs, whether it already exists, and whether the manifest references it.
It prints the converter command for each size (icons.converter) but never
runs it.

Exits non-zero only when the source SVG is missing (4) or malformed (3).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIcons,
	}
	cmd.Flags().StringP("config", "c", "", "Config file (default: .sitecheck.yaml in the site directory)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text|json)")
	return cmd
}

func runIcons(cmd *cobra.Command, args []string) error {
	site := siteArg(args)
	configFile, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("format")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, _, err := config.Load(config.LoadOptions{SiteDir: site, ConfigFile: configFile})
	if err != nil {
		return exitcode.New(exitcode.ConfigError, err)
	}
	plan, err := icons.Build(site, cfg.Icons, cfg.Manifest)
	if err != nil {
		return exitcode.New(exitcode.ConfigError, err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text", "":
		err = icons.WriteText(out, plan, verify.ColorEnabled(out, noColor))
	case "json":
		err = icons.WriteJSON(out, plan)
	default:
		return fmt.Errorf("unsupported format %q (use text or json)", format)
	}
	if err != nil {
		return err
	}

	switch {
	case !plan.Source.Exists:
		return exitcode.Errorf(exitcode.FileSystemError, "%s: %s", plan.Source.Path, plan.Source.Error)
	case !plan.Source.Valid:
		return exitcode.Errorf(exitcode.VerificationFail, "%s: %s", plan.Source.Path, plan.Source.Error)
	}
	return nil
}
