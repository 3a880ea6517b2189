package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spillover/internal/format"
	"spillover/internal/logging"
	"spillover/internal/spillover"
)

var reportFlags struct {
	project     string
	window      int
	pageSize    int
	output      string
	exclude     []string
	epicWorkers int
	render      string
	noInput     bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report issues worked across more than one sprint",
	Long: `Searches the project for recently updated issues, keeps those recorded
in more than one distinct sprint with more than one sprint change in their
history, resolves epic titles, and prints the report. The same rows are
written tab-separated to the output file, overwriting prior content.

Issues resolved longer ago than the window are excluded even when their
sprint counts qualify.

Missing values (project, window, output file) are prompted for on an
interactive terminal unless --no-input is set.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportFlags.project, "project", "p", "", "Jira project key (required unless configured)")
	f.IntVarP(&reportFlags.window, "window", "w", 0, "Recency window in days (default 10)")
	f.IntVar(&reportFlags.pageSize, "page-size", 0, "Search page size (default 100)")
	f.StringVarP(&reportFlags.output, "output", "o", "", "Output file (default issues_output.txt; .txt appended if missing)")
	f.StringSliceVar(&reportFlags.exclude, "exclude", nil, "Issue types excluded from the search (default Epic,Risk)")
	f.IntVar(&reportFlags.epicWorkers, "epic-workers", 0, "Concurrent epic title lookups (default 1 = serial)")
	f.StringVar(&reportFlags.render, "format", "tsv", "Console format: tsv, table, or markdown")
	f.BoolVar(&reportFlags.noInput, "no-input", false, "Never prompt; fail when required values are missing")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg := appCfg
	if reportFlags.project != "" {
		cfg.Project = reportFlags.project
	}
	if reportFlags.window > 0 {
		cfg.WindowDays = reportFlags.window
	}
	if reportFlags.pageSize > 0 {
		cfg.PageSize = reportFlags.pageSize
	}
	if reportFlags.output != "" {
		cfg.OutputFile = reportFlags.output
	}
	if len(reportFlags.exclude) > 0 {
		cfg.ExcludedTypes = reportFlags.exclude
	}
	if reportFlags.epicWorkers > 0 {
		cfg.EpicWorkers = reportFlags.epicWorkers
	}

	out := cmd.OutOrStdout()

	// Prompting happens here, before the pipeline; the pipeline itself
	// never blocks on interactive input.
	if cfg.Project == "" {
		if reportFlags.noInput {
			return fmt.Errorf("project is required (--project, SPILLOVER_PROJECT, or config file)")
		}
		in := bufio.NewReader(cmd.InOrStdin())
		project, err := promptRequired(in, out, "Project key")
		if err != nil {
			return err
		}
		cfg.Project = project
		cfg.WindowDays = promptInt(in, out, "Window in days", cfg.WindowDays)
		cfg.OutputFile = promptString(in, out, "Output file", cfg.OutputFile)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	rows, err := spillover.Run(cmd.Context(), client, spillover.Params{
		Project:          cfg.Project,
		WindowDays:       cfg.WindowDays,
		PageSize:         cfg.PageSize,
		ExcludedTypes:    cfg.ExcludedTypes,
		SprintField:      cfg.SprintField,
		EpicLinkField:    cfg.EpicLinkField,
		EpicNameField:    cfg.EpicNameField,
		StoryPointsField: cfg.StoryPointsField,
		EpicWorkers:      cfg.EpicWorkers,
	}, logging.New("pipeline"))
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No issues matched the spillover criteria.")
	} else {
		fmt.Fprint(out, spillover.Render(rows, format.ParseMode(reportFlags.render)))
	}

	// The report is already on screen; a failed file write is reported
	// but does not fail the run.
	path, err := spillover.WriteFile(cfg.OutputFile, rows)
	if err != nil {
		logging.New("report").Error("report file write failed", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "could not write report file: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Report written to %s (%d issues)\n", path, len(rows))
	return nil
}
