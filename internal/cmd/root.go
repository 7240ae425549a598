package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"shaihulud/pkg/config"
)

var (
	tokenFlag        string
	workersFlag      int
	configFlag       string
	apiURLFlag       string
	logLevelFlag     string
	noColorFlag      bool
	otelEndpointFlag string
	rpsFlag          float64
)

var rootCmd = &cobra.Command{
	Use:   "shaihulud",
	Short: "Scan GitHub accounts for signs of the Shai-Hulud worm",
	Long: `shaihulud checks the public repositories of GitHub users for the description
the Shai-Hulud worm leaves behind ("Sha1-Hulud: The Second Coming.") and reports
each user as flagged, clean, or failed.

Users can be listed in a file (one username per line) or taken from the member
list of a GitHub organization.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		os.Exit(1)
	}
}

// reportError writes err to the command's stderr with the [ERROR] prefix
func reportError(cmd *cobra.Command, err error) {
	newPrinterFor(cmd.ErrOrStderr()).Error(err)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&tokenFlag, "token", "t", "", "GitHub token (defaults to GITHUB_TOKEN, GH_TOKEN, config file, .env or gh CLI login)")
	flags.IntVarP(&workersFlag, "workers", "w", config.DefaultWorkers, "Number of users scanned concurrently")
	flags.StringVar(&configFlag, "config", "", "Config file path (default ~/.shaihulud/config.yaml)")
	flags.StringVar(&apiURLFlag, "api-url", "", "GitHub API base URL (default https://api.github.com/)")
	flags.StringVar(&logLevelFlag, "log-level", config.DefaultLogLevel, "Diagnostic log level written to stderr (debug, info, warn, error)")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	flags.StringVar(&otelEndpointFlag, "otel-endpoint", "", "OTLP/gRPC endpoint for trace export")
	flags.Float64Var(&rpsFlag, "rps", 0, "Maximum API requests per second across all workers (0 = unlimited)")

	rootCmd.AddCommand(scanFileCmd)
	rootCmd.AddCommand(scanOrgCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(initCmd)
}
