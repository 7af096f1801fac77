package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var fieldsJSON bool

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields defined by the Jira instance",
	Long: `List every field the Jira instance defines, including custom fields.

The printed ids are what --fields accepts in 'jix query' and
'jix export'. Custom fields are marked with "custom".

Examples:
  jix fields
  jix fields --json`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

func init() {
	fieldsCmd.SilenceUsage = true
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "Output the field catalog as raw JSON")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	fields, err := c.Fields()
	if err != nil {
		return err
	}

	if fieldsJSON {
		return jsonPrint(fields)
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })

	for _, f := range fields {
		marker := ""
		if f.Custom {
			marker = "  custom"
		}
		fmt.Printf("%-28s %s%s\n", f.ID, f.Name, marker)
	}
	fmt.Printf("\n%d fields\n", len(fields))
	return nil
}
