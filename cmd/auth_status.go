package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the authenticated Jira account",
	Long: `Check which account the current credentials resolve to.

Resolves the server and credentials the same way every other command
does (flags > environment/.env > saved config) and calls the instance's
/myself endpoint.

Exit codes:
  0: authenticated
  1: no credentials, or the instance rejected them

Example:
  jix auth status`,
	RunE: runStatus,
}

func init() {
	statusCmd.SilenceUsage = true
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output the account as raw JSON")
	authCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: 1}
	}

	me, err := c.Myself()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: 1}
	}

	if statusJSON {
		return jsonPrint(me)
	}

	who := me.DisplayName
	if who == "" {
		who = me.Name
	}
	fmt.Printf("Server:  %s\n", c.BaseURL)
	fmt.Printf("Account: %s", who)
	if me.EmailAddress != "" {
		fmt.Printf(" <%s>", me.EmailAddress)
	}
	fmt.Println()
	return nil
}
