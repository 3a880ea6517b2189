// Package spillover identifies issues that were worked across multiple
// sprints within a recent window and turns them into a tabular report.
package spillover

import (
	"encoding/json"
	"strconv"
	"strings"

	"spillover/internal/jira"
)

// Sprint is the parsed form of one sprint-field entry.
type Sprint struct {
	ID    int
	Name  string
	State string
}

// ParseSprint parses the legacy greenhopper sprint string, e.g.
//
//	com.atlassian...Sprint@3f[id=23,rapidViewId=5,state=CLOSED,name=Sprint 7,...]
//
// The reported ok is false when no name attribute is present. Attribute
// values are trimmed at the next comma, so names containing commas are
// truncated there.
func ParseSprint(raw string) (Sprint, bool) {
	body := raw
	if open := strings.Index(raw, "["); open >= 0 {
		body = raw[open+1:]
		if close := strings.LastIndex(body, "]"); close >= 0 {
			body = body[:close]
		}
	}

	var s Sprint
	ok := false
	for _, part := range strings.Split(body, ",") {
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "id":
			s.ID, _ = strconv.Atoi(val)
		case "name":
			s.Name = val
			ok = true
		case "state":
			s.State = val
		}
	}
	return s, ok
}

// parseSprints decodes the sprint custom field, which is either a list of
// greenhopper strings (Jira Server) or a list of sprint objects (Jira
// Cloud). Malformed entries are skipped.
func parseSprints(fields *jira.IssueFields, fieldID string) []Sprint {
	raw, ok := fields.CustomRaw(fieldID)
	if !ok {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	var out []Sprint
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			if sprint, ok := ParseSprint(s); ok {
				out = append(out, sprint)
			}
			continue
		}
		var obj struct {
			ID    int    `json:"id"`
			Name  string `json:"name"`
			State string `json:"state"`
		}
		if err := json.Unmarshal(elem, &obj); err == nil && obj.Name != "" {
			out = append(out, Sprint{ID: obj.ID, Name: obj.Name, State: obj.State})
		}
	}
	return out
}

// workedSprints returns the distinct sprint names recorded on the issue,
// in order of first appearance.
func workedSprints(fields *jira.IssueFields, fieldID string) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, s := range parseSprints(fields, fieldID) {
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		names = append(names, s.Name)
	}
	return names
}
