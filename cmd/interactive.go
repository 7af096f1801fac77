package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jixlabs/jix-cli/client"
	"github.com/jixlabs/jix-cli/internal"
)

var interactivePickFields bool

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Guided prompt loop: query, review, export",
	Long: `Run the query-and-export flow as a sequence of prompts.

What happens:
  1. You are prompted for a JQL query.
  2. You are prompted for a result cap (blank fetches everything;
     non-numeric input falls back to everything with a notice).
  3. Matching issues are printed as "Issue Key: X - Summary: Y" lines.
  4. You are asked whether to export them to a spreadsheet, and if so,
     for the output file name (default jira_issues.xlsx).

With --pick-fields, the instance's field catalog is walked one field at
a time with an include-it y/n prompt before the search runs. Without it,
the canonical column set is exported.

Example:
  jix interactive`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.SilenceUsage = true
	interactiveCmd.Flags().BoolVar(&interactivePickFields, "pick-fields", false, "Choose exported fields one by one")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	c, err := newAPIClient()
	if err != nil {
		return err
	}

	jql, err := promptLine(reader, "Enter your JQL query: ")
	if err != nil {
		return err
	}
	jql = strings.TrimSpace(jql)
	if jql == "" {
		return fmt.Errorf("JQL query must not be empty")
	}

	maxRaw, err := promptLine(reader, "Enter the number of issues to fetch (leave blank for all): ")
	if err != nil {
		return err
	}
	max, ok := parseMaxResults(maxRaw)
	if !ok {
		fmt.Fprintln(os.Stderr, "Invalid input. Fetching all issues.")
		max = 0
	}

	cols := internal.DefaultColumns()
	if interactivePickFields {
		cols, err = pickColumns(reader, c)
		if err != nil {
			return err
		}
	}

	issues, err := c.SearchAll(jql, internal.SearchFields(cols), max)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Println("No issues found matching the JQL query.")
		return nil
	}

	fmt.Printf("\nFetched %d issues:\n", len(issues))
	for _, issue := range issues {
		summary := ""
		if issue.Fields != nil {
			summary = issue.Fields.Summary
		}
		fmt.Printf("Issue Key: %s - Summary: %s\n", issue.Key, summary)
	}

	answer, err := promptLine(reader, "\nExport issues to a spreadsheet? (y/n): ")
	if err != nil {
		return err
	}
	if !isYes(answer) {
		return nil
	}

	out, err := promptLine(reader, "Output file [jira_issues.xlsx]: ")
	if err != nil {
		return err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		out = "jira_issues.xlsx"
	}

	format, err := resolveExportFormat("", out)
	if err != nil {
		return err
	}

	header := internal.Header(cols)
	rows := internal.Rows(issues, cols)
	switch format {
	case "xlsx":
		err = internal.WriteXLSX(out, "Jira Issues", header, rows)
	case "csv":
		err = internal.WriteCSV(out, header, rows)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", out)
	return nil
}

// pickColumns walks the instance's field catalog with a y/n prompt per
// field. The issue key column is always included.
func pickColumns(reader *bufio.Reader, c *client.Client) ([]internal.Column, error) {
	fields, err := c.Fields()
	if err != nil {
		return nil, err
	}

	cols := []internal.Column{internal.ColumnFor("key", "key")}
	for _, f := range fields {
		if !f.Navigable || f.ID == "" {
			continue
		}
		answer, err := promptLine(reader, fmt.Sprintf("Include field '%s'? (y/n): ", f.Name))
		if err != nil {
			return nil, err
		}
		if !isYes(answer) {
			continue
		}
		label := f.Name
		if label == "" {
			label = f.ID
		}
		cols = append(cols, internal.ColumnFor(f.ID, label))
	}
	return cols, nil
}

// parseMaxResults interprets the result-cap prompt answer. Blank means
// fetch everything; anything non-numeric or negative is invalid.
func parseMaxResults(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
