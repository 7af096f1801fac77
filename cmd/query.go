package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jixlabs/jix-cli/internal"
)

var (
	queryMaxResults int
	queryFields     []string
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query <jql>",
	Short: "Run a JQL query and print matching issues",
	Long: `Run a JQL (Jira Query Language) search and print the matching issues.

Behavior:
  - Results are paginated transparently; all matches are fetched unless
    --max-results caps the count.
  - Default output is one line per issue: KEY  STATUS  SUMMARY.
  - --fields adds columns by field id (repeatable); custom fields work
    by id, e.g. customfield_10042.

Use --json for the raw issue objects.

Examples:
  jix query 'project = PROJ AND status = "In Progress"'
  jix query 'assignee = currentUser()' -n 50
  jix query 'project = PROJ' -f priority -f customfield_10042
  jix query 'project = PROJ' --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryMaxResults, "max-results", "n", 0, "Maximum number of issues to fetch (0 = all)")
	queryCmd.Flags().StringArrayVarP(&queryFields, "fields", "f", nil, "Additional field id to print (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw issue JSON instead of formatted lines")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	jql := strings.TrimSpace(args[0])
	if jql == "" {
		return fmt.Errorf("JQL query must not be empty")
	}

	c, err := newAPIClient()
	if err != nil {
		return err
	}

	cols := internal.ResolveColumns(append([]string{"key", "status", "summary"}, queryFields...))
	issues, err := c.SearchAll(jql, internal.SearchFields(cols), queryMaxResults)
	if err != nil {
		return err
	}

	if queryJSON {
		return jsonPrint(issues)
	}

	if len(issues) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	for _, issue := range issues {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = col.Cell(issue)
		}
		// Key and status padded for scanability, summary and extras free-form.
		fmt.Printf("%-12s %-16s %s\n", cells[0], cells[1], strings.Join(cells[2:], "  "))
	}
	fmt.Printf("\n%d issue", len(issues))
	if len(issues) != 1 {
		fmt.Print("s")
	}
	fmt.Println()
	return nil
}
