package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaihulud/pkg/github"
)

var scanOrgCmd = &cobra.Command{
	Use:   "scan-org <org>",
	Short: "Scan every member of a GitHub organization",
	Long: `Scan every member of a GitHub organization.

The full member list is fetched before any user is scanned. If the list cannot
be fetched the command fails without scanning anyone. Listing private members
requires a token with the read:org scope.

Examples:
  shaihulud scan-org my-org
  shaihulud scan-org my-org --workers 20 --rps 10`,
	Args: cobra.ExactArgs(1),
	RunE: runScanOrg,
}

func runScanOrg(cmd *cobra.Command, args []string) error {
	org := args[0]

	session, err := newScanSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	lister := github.NewMemberLister(session.client, session.logger.WithField("run_id", session.runID))
	members, err := lister.List(cmd.Context(), org)
	if err != nil {
		return fmt.Errorf("Could not load members for org '%s': %w", org, err)
	}

	if len(members) == 0 {
		session.printer.Start(0, org)
		session.printer.Info("No users to scan. Exiting.")
		return nil
	}

	session.run(cmd.Context(), members, org)
	return nil
}
