package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jixlabs/jix-cli/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove saved Jira credentials",
	Long: `Sign out on this machine.

What happens:
  - Removes locally saved credentials.
  - If none exist, prints "Not logged in." and exits successfully.

API tokens are not server-side sessions, so nothing is revoked remotely;
revoke tokens at https://id.atlassian.com/manage-profile/security/api-tokens.

Example:
  jix auth logout`,
	RunE: runLogout,
}

func init() {
	logoutCmd.SilenceUsage = true
	authCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg == (config.Config{}) {
		fmt.Fprintln(os.Stderr, "Not logged in.")
		return nil
	}

	if err := config.Delete(); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	fmt.Fprintln(os.Stderr, "✓ Logged out")
	return nil
}
