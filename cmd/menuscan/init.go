package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/menuscan.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".menuscan"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter menuscan configuration file",
		Long: `Init writes an annotated .menuscan configuration file so the
validation thresholds live next to the datasets instead of on the
command line. Every option ships commented out with its default, so a
fresh file changes nothing until you edit it.

Examples:
  # Write .menuscan in the current directory
  menuscan init

  # Write the file somewhere else
  menuscan init -o conf/menuscan.yaml

  # Replace an existing file
  menuscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Never clobber a hand-edited file without -f.
	if _, err := os.Stat(outputPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
	}

	content, err := configTemplate.ReadFile("templates/menuscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(w, "\nThe file documents every option; the ones people reach for first:")
	fmt.Fprintln(w, "  - original/cleaned dataset paths")
	fmt.Fprintln(w, "  - sigmaMultiplier for outlier detection")
	fmt.Fprintln(w, "  - minYear/maxYear bounds for menu dates")

	return nil
}
