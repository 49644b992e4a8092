package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lifetag/tagscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/tagscan.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a tagscan configuration file",
		Long: `Init writes a commented .tagscan configuration file with the default
scanner, device and display settings.

Examples:
  # Create .tagscan in the current directory
  tagscan init

  # Create the per-user config file
  tagscan init -o ~/.config/tagscan/config.yaml

  # Overwrite an existing file
  tagscan init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
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

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/tagscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if err := writeFile(outputPath, content); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - the capture directory of each camera")
	fmt.Fprintln(out, "  - scan rate and scan box size")
	fmt.Fprintln(out, "  - the placeholder for missing fields")

	return nil
}

// writeFile writes data to path, creating parent directories.
// Files are owner-only since tags carry personal data.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0600)
}
