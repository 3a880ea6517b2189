package spillover

import (
	"context"
	"io"
	"log/slog"
	"time"

	"spillover/internal/jira"
)

// Params configures one report run.
type Params struct {
	Project       string
	WindowDays    int
	PageSize      int
	ExcludedTypes []string

	SprintField      string
	EpicLinkField    string
	EpicNameField    string
	StoryPointsField string

	EpicWorkers int
	Now         time.Time // zero means time.Now()
}

// Run executes the whole pipeline: paginated search, spillover filtering,
// epic title resolution, and row construction. A search failure is fatal;
// epic lookup failures degrade to sentinel titles.
func Run(ctx context.Context, client *jira.Client, p Params, logger *slog.Logger) ([]Row, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	jql := jira.Filter{
		Project:       p.Project,
		ExcludedTypes: p.ExcludedTypes,
		WindowDays:    p.WindowDays,
	}.JQL()
	logger.InfoContext(ctx, "searching issues", "jql", jql)

	issues, err := client.SearchAll(ctx, jql, jira.SearchOptions{
		MaxResults: p.PageSize,
		Fields: []string{
			"summary", "status", "issuetype", "assignee", "resolutiondate",
			p.SprintField, p.EpicLinkField, p.StoryPointsField,
		},
		ExpandChangelog: true,
	})
	if err != nil {
		return nil, err
	}

	cands := Filter{
		Window:      p.WindowDays,
		Now:         now,
		SprintField: p.SprintField,
		EpicField:   p.EpicLinkField,
		PointsField: p.StoryPointsField,
	}.Apply(issues)
	logger.InfoContext(ctx, "issues filtered", "fetched", len(issues), "retained", len(cands))

	keys := make([]string, 0, len(cands))
	for _, c := range cands {
		keys = append(keys, c.EpicKey)
	}
	resolver := &Resolver{
		Client:    client,
		NameField: p.EpicNameField,
		Workers:   p.EpicWorkers,
		Logger:    logger,
	}
	titles := resolver.Titles(ctx, keys)

	return BuildRows(cands, titles), nil
}
