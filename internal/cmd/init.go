package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shaihulud/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shaihulud configuration",
	Long:  "Create a default configuration file for shaihulud (at --config, or ~/.shaihulud/config.yaml)",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath := configFlag
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Configuration file already exists at: %s\n", configPath)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response) // Ignore error for user input
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	defaultConfig := &config.Config{}
	defaultConfig.ApplyDefaults()

	if err := defaultConfig.SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "Edit the file to set github.token, scan.workers or telemetry.otlp_endpoint.")

	return nil
}
