package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/spf13/cobra"

	"github.com/jixlabs/jix-cli/internal"
)

var (
	exportOut        string
	exportFields     []string
	exportAllFields  bool
	exportMaxResults int
	exportSheet      string
	exportFormat     string
)

var exportCmd = &cobra.Command{
	Use:   "export <jql>",
	Short: "Run a JQL query and export the issues to a spreadsheet",
	Long: `Run a JQL search and write the matching issues to a spreadsheet file.

Columns:
  - By default a canonical set is exported: key, summary, status,
    priority, issuetype, created, updated, resolutiondate, assignee,
    reporter, project, fixVersions, components, labels, environment,
    resolution, timespent.
  - --fields replaces it with your own field ids (repeatable); custom
    fields work by id, e.g. customfield_10042.
  - --all-fields exports every navigable field the instance defines.

Output file:
  - --out names the file (default jira_issues.xlsx) and is overwritten
    if it exists.
  - --format picks xlsx or csv; when unset it is inferred from the
    --out extension (.csv means csv, anything else means xlsx).
  - A query with no matches still writes the header row.

Examples:
  jix export 'project = PROJ AND resolved >= -30d'
  jix export 'project = PROJ' -o sprint.xlsx --sheet "Sprint 12"
  jix export 'project = PROJ' -f key -f summary -f customfield_10042
  jix export 'project = PROJ' -o issues.csv
  jix export 'project = PROJ' --all-fields -n 200`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "jira_issues.xlsx", "Output file path")
	exportCmd.Flags().StringArrayVarP(&exportFields, "fields", "f", nil, "Field id to export (repeatable; replaces the default set)")
	exportCmd.Flags().BoolVar(&exportAllFields, "all-fields", false, "Export every navigable field defined by the instance")
	exportCmd.Flags().IntVarP(&exportMaxResults, "max-results", "n", 0, "Maximum number of issues to fetch (0 = all)")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "Jira Issues", "Worksheet name (xlsx only)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: xlsx or csv (default: inferred from --out)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	jql := strings.TrimSpace(args[0])
	if jql == "" {
		return fmt.Errorf("JQL query must not be empty")
	}

	if exportAllFields && len(exportFields) > 0 {
		return fmt.Errorf("--all-fields and --fields are mutually exclusive")
	}

	format, err := resolveExportFormat(exportFormat, exportOut)
	if err != nil {
		return err
	}

	c, err := newAPIClient()
	if err != nil {
		return err
	}

	var cols []internal.Column
	switch {
	case exportAllFields:
		serverFields, err := c.Fields()
		if err != nil {
			return err
		}
		cols = columnsForServerFields(serverFields)
	case len(exportFields) > 0:
		cols = internal.ResolveColumns(exportFields)
	default:
		cols = internal.DefaultColumns()
	}

	issues, err := c.SearchAll(jql, internal.SearchFields(cols), exportMaxResults)
	if err != nil {
		return err
	}

	header := internal.Header(cols)
	rows := internal.Rows(issues, cols)

	switch format {
	case "xlsx":
		err = internal.WriteXLSX(exportOut, exportSheet, header, rows)
	case "csv":
		err = internal.WriteCSV(exportOut, header, rows)
	}
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Printf("No issues matched; wrote header-only %s\n", exportOut)
		return nil
	}
	fmt.Printf("Exported %d issue", len(issues))
	if len(issues) != 1 {
		fmt.Print("s")
	}
	fmt.Printf(" to %s\n", exportOut)
	return nil
}

// resolveExportFormat picks the output format from the flag, falling
// back to the output file extension.
func resolveExportFormat(format, out string) (string, error) {
	switch format {
	case "xlsx", "csv":
		return format, nil
	case "":
		if strings.EqualFold(filepath.Ext(out), ".csv") {
			return "csv", nil
		}
		return "xlsx", nil
	default:
		return "", fmt.Errorf("unsupported format %q: use xlsx or csv", format)
	}
}

// columnsForServerFields builds the column set for --all-fields: issue key
// first, then every navigable server field in catalog order.
func columnsForServerFields(fields []jira.Field) []internal.Column {
	cols := []internal.Column{internal.ColumnFor("key", "key")}
	for _, f := range fields {
		if !f.Navigable || f.ID == "" {
			continue
		}
		label := f.Name
		if label == "" {
			label = f.ID
		}
		cols = append(cols, internal.ColumnFor(f.ID, label))
	}
	return cols
}
