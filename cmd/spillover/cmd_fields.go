package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spillover/internal/format"
)

var fieldsFlags struct {
	customOnly bool
	render     string
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List Jira field definitions",
	Long: `Lists the instance's field definitions. Use it to discover the
customfield ids for sprint, epic link, epic name, and story points, then
set them in the config file or SPILLOVER_*_FIELD environment variables.`,
	RunE: runFields,
}

func init() {
	f := fieldsCmd.Flags()
	f.BoolVar(&fieldsFlags.customOnly, "custom", false, "Show only custom fields")
	f.StringVar(&fieldsFlags.render, "format", "table", "Output format: tsv, table, or markdown")
}

func runFields(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	fields, err := client.Fields(cmd.Context())
	if err != nil {
		return err
	}

	tb := format.NewTable(format.ParseMode(fieldsFlags.render))
	tb.Header("ID", "Name", "Custom")
	n := 0
	for _, f := range fields {
		if fieldsFlags.customOnly && !f.Custom {
			continue
		}
		tb.Row(f.ID, f.Name, f.Custom)
		n++
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tb.String())
	fmt.Fprintf(out, "%d fields\n", n)
	return nil
}
