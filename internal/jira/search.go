package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the search window used when no page size is configured.
const DefaultPageSize = 100

// Filter describes the search scope: one project, a set of excluded issue
// types, and an update-recency window in days.
type Filter struct {
	Project       string
	ExcludedTypes []string
	WindowDays    int
}

// JQL renders the filter as a Jira query expression. A non-positive window
// falls back to 10 days.
func (f Filter) JQL() string {
	window := f.WindowDays
	if window <= 0 {
		window = 10
	}
	var b strings.Builder
	fmt.Fprintf(&b, "project = %s", f.Project)
	if len(f.ExcludedTypes) > 0 {
		quoted := make([]string, len(f.ExcludedTypes))
		for i, t := range f.ExcludedTypes {
			quoted[i] = strconv.Quote(t)
		}
		fmt.Fprintf(&b, " AND issuetype not in (%s)", strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&b, " AND updated >= -%dd ORDER BY updated DESC", window)
	return b.String()
}

// SearchOptions controls paging, field selection, and changelog expansion
// for a search request.
type SearchOptions struct {
	StartAt         int
	MaxResults      int
	Fields          []string
	ExpandChangelog bool
}

// Search issues a single search page. Uses GET /rest/api/2/search.
func (c *Client) Search(ctx context.Context, jql string, opts SearchOptions) (*SearchResult, error) {
	if jql == "" {
		return nil, fmt.Errorf("jira: empty jql")
	}
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", strconv.Itoa(opts.StartAt))
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultPageSize
	}
	params.Set("maxResults", strconv.Itoa(max))
	if len(opts.Fields) > 0 {
		params.Set("fields", strings.Join(opts.Fields, ","))
	}
	if opts.ExpandChangelog {
		params.Set("expand", "changelog")
	}

	u := fmt.Sprintf("%s/rest/api/2/search?%s", c.baseURL, params.Encode())

	var result SearchResult
	if err := c.doJSON(ctx, "GET", u, "search issues", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAll returns every issue matching the JQL, auto-paginating by
// advancing startAt until it reaches the reported total. Any page failure
// aborts the whole fetch; no partial result is returned. Per-page progress
// is logged, which is observational only.
func (c *Client) SearchAll(ctx context.Context, jql string, opts SearchOptions) ([]Issue, error) {
	pageSize := opts.MaxResults
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []Issue
	startAt := 0
	for {
		pageOpts := opts
		pageOpts.StartAt = startAt
		pageOpts.MaxResults = pageSize

		page, err := c.Search(ctx, jql, pageOpts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Issues...)
		startAt += pageSize

		c.logger.InfoContext(ctx, "search page fetched",
			"fetched", len(all), "startAt", startAt, "total", page.Total)

		if startAt >= page.Total {
			break
		}
	}
	return all, nil
}
