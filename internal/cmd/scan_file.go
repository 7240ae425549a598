package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"shaihulud/pkg/scanner"
)

var scanFileCmd = &cobra.Command{
	Use:   "scan-file <users_file>",
	Short: "Scan the GitHub users listed in a file",
	Long: `Scan every GitHub user listed in a file, one username per line.

Blank lines are ignored and surrounding whitespace is trimmed. A user listed
twice is scanned twice.

Examples:
  shaihulud scan-file users.txt
  shaihulud scan-file users.txt --workers 10 --token "$GITHUB_TOKEN"`,
	Args: cobra.ExactArgs(1),
	RunE: runScanFile,
}

func runScanFile(cmd *cobra.Command, args []string) error {
	path := args[0]

	usernames, err := scanner.LoadUsernamesFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Could not find '%s'. Please provide a valid file.", path)
		}
		return fmt.Errorf("Could not read '%s': %w", path, err)
	}

	if len(usernames) == 0 {
		printer := newPrinter(cmd)
		printer.Start(0, "")
		printer.Info("No users to scan. Exiting.")
		return nil
	}

	session, err := newScanSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	session.run(cmd.Context(), usernames, "")
	return nil
}
