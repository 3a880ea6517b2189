package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Issue fetches a single issue by key, restricted to the given fields
// (all fields when none are named). Uses GET /rest/api/2/issue/{key}.
func (c *Client) Issue(ctx context.Context, key string, fields ...string) (*Issue, error) {
	if key == "" {
		return nil, fmt.Errorf("jira: empty issue key")
	}
	u := fmt.Sprintf("%s/rest/api/2/issue/%s", c.baseURL, url.PathEscape(key))
	if len(fields) > 0 {
		params := url.Values{}
		params.Set("fields", strings.Join(fields, ","))
		u += "?" + params.Encode()
	}

	var issue Issue
	if err := c.doJSON(ctx, "GET", u, "get issue", nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
