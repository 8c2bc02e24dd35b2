/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/sitecheck/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show sitecheck version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()
	info := buildinfo.Read()
	goVersion := info.GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   info.Version,
			"goVersion": goVersion,
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if info.Commit != "" {
			versionInfo["commit"] = info.Commit
			versionInfo["modified"] = info.Modified
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "sitecheck %s\n", info.Version)
	if extended {
		fmt.Fprintf(out, "Go version: %s\n", goVersion)
		fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if info.Module != "" {
			fmt.Fprintf(out, "Module version: %s\n", info.Module)
		}
		if info.Commit != "" {
			dirty := ""
			if info.Modified {
				dirty = " (modified)"
			}
			fmt.Fprintf(out, "Commit: %s%s\n", info.Commit, dirty)
		}
	}
	return nil
}
