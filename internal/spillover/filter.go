package spillover

import (
	"strings"
	"time"

	"spillover/internal/jira"
)

// changelogSprintField is the field name Jira reports in changelog entries
// when an issue's sprint membership changes, independent of the custom
// field id the sprint values live under.
const changelogSprintField = "Sprint"

// Candidate is the derived view over one retained issue.
type Candidate struct {
	Key           string
	Summary       string
	Status        string
	Type          string
	Assignee      string
	Points        *float64
	WorkedSprints []string // distinct names, first-seen order
	SprintChanges int      // raw changelog event count, not distinct
	EpicKey       string   // empty when the issue has no parent epic
	ResolvedAt    *time.Time
}

// Filter derives spillover candidates from fetched issues.
type Filter struct {
	Window      int       // recency window in days
	Now         time.Time // process start time, fixed for the whole pass
	SprintField string    // custom field id holding sprint membership
	EpicField   string    // custom field id holding the epic link
	PointsField string    // custom field id holding the story point value
}

// Apply folds the fetched issues into the retained candidate list,
// preserving fetch order. An issue is retained when it passes the
// resolution-recency gate and was both recorded in more than one distinct
// sprint and saw more than one sprint change in its history.
func (f Filter) Apply(issues []jira.Issue) []Candidate {
	window := f.Window
	if window <= 0 {
		window = 10
	}

	out := make([]Candidate, 0, len(issues))
	for _, issue := range issues {
		var resolvedAt *time.Time
		if rd := issue.Fields.ResolutionDate; rd != nil {
			t := rd.Time()
			resolvedAt = &t
			// The recency gate dominates: an old resolution excludes the
			// issue no matter what its sprint counts say.
			if f.Now.Sub(t) > time.Duration(window)*24*time.Hour {
				continue
			}
		}

		sprints := workedSprints(&issue.Fields, f.SprintField)
		changes := countSprintChanges(issue.Changelog)
		if len(sprints) < 2 || changes < 2 {
			continue
		}

		c := Candidate{
			Key:           issue.Key,
			Summary:       issue.Fields.Summary,
			WorkedSprints: sprints,
			SprintChanges: changes,
			ResolvedAt:    resolvedAt,
		}
		if issue.Fields.Status != nil {
			c.Status = issue.Fields.Status.Name
		}
		if issue.Fields.IssueType != nil {
			c.Type = issue.Fields.IssueType.Name
		}
		if issue.Fields.Assignee != nil {
			c.Assignee = issue.Fields.Assignee.DisplayName
		}
		if epic, ok := issue.Fields.CustomString(f.EpicField); ok {
			c.EpicKey = strings.TrimSpace(epic)
		}
		if pts, ok := issue.Fields.CustomFloat(f.PointsField); ok {
			c.Points = &pts
		}
		out = append(out, c)
	}
	return out
}

// countSprintChanges counts every changelog item that touched the sprint
// field, in either direction. This is a raw event count and may exceed the
// distinct worked-sprint count.
func countSprintChanges(log *jira.Changelog) int {
	if log == nil {
		return 0
	}
	n := 0
	for _, h := range log.Histories {
		for _, item := range h.Items {
			if strings.EqualFold(item.Field, changelogSprintField) {
				n++
			}
		}
	}
	return n
}
