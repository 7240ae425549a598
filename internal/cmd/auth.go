package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaihulud/pkg/github"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Show which GitHub token a scan would use",
	Long: `Show which GitHub token a scan would use and where it was found.

The token is never printed in full.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func runAuth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	token := github.ResolveToken(tokenFlag, cfg)
	if !token.Authenticated() {
		fmt.Fprintln(out, "No GitHub token found.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, github.GetAuthInstructions())
		return nil
	}

	fmt.Fprintf(out, "Token: %s\n", maskToken(token.Token))
	fmt.Fprintf(out, "Source: %s\n", token.Source)
	return nil
}

// maskToken keeps the first four characters of a token
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}
