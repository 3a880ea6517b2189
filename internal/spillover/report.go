package spillover

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"spillover/internal/format"
)

// Display sentinels, applied at the formatting boundary only. Everything
// upstream carries typed values (pointers, tagged EpicTitle, empty strings).
const (
	NoEpicDisplay       = "no parent"
	LookupFailedDisplay = "lookup failed"
	NoTitleDisplay      = "no title"
	UnknownDisplay      = "Unknown"
	NoPointsDisplay     = "N/A"
	UnassignedDisplay   = "Unassigned"
)

// columns is the fixed report header. All ten row values are listed.
var columns = []string{
	"Worked Sprints", "Sprint Changes", "Type", "Key", "Summary",
	"Status", "Epic", "Epic Title", "Points", "Assignee",
}

// Columns returns the report column names in output order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Row is one formatted report line for a retained candidate.
type Row struct {
	WorkedSprints int    `json:"worked_sprints"`
	SprintChanges int    `json:"sprint_changes"`
	Type          string `json:"type"`
	Key           string `json:"key"`
	Summary       string `json:"summary"`
	Status        string `json:"status"`
	EpicKey       string `json:"epic_key"`
	EpicTitle     string `json:"epic_title"`
	Points        string `json:"points"`
	Assignee      string `json:"assignee"`
}

// BuildRows joins candidates with resolved epic titles, applying display
// defaults. Row order follows candidate retention order.
func BuildRows(cands []Candidate, titles map[string]EpicTitle) []Row {
	rows := make([]Row, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, Row{
			WorkedSprints: len(c.WorkedSprints),
			SprintChanges: c.SprintChanges,
			Type:          orDefault(c.Type, UnknownDisplay),
			Key:           c.Key,
			Summary:       c.Summary,
			Status:        orDefault(c.Status, UnknownDisplay),
			EpicKey:       orDefault(c.EpicKey, NoEpicDisplay),
			EpicTitle:     displayTitle(c.EpicKey, titles),
			Points:        displayPoints(c.Points),
			Assignee:      orDefault(c.Assignee, UnassignedDisplay),
		})
	}
	return rows
}

// Render produces the report table, header first, in the given mode.
func Render(rows []Row, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header(columns...)
	for _, r := range rows {
		tb.Row(r.WorkedSprints, r.SprintChanges, r.Type, r.Key, r.Summary,
			r.Status, r.EpicKey, r.EpicTitle, r.Points, r.Assignee)
	}
	return tb.String()
}

// WriteFile persists the tab-separated report to path, overwriting prior
// content. A ".txt" suffix is appended when missing. An empty row set still
// writes the header line. Returns the path actually written.
func WriteFile(path string, rows []Row) (string, error) {
	path = EnsureTxt(path)
	content := Render(rows, format.TSV)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return path, fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// EnsureTxt appends a ".txt" suffix when the name has none.
func EnsureTxt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".txt") {
		return name
	}
	return name + ".txt"
}

func displayTitle(epicKey string, titles map[string]EpicTitle) string {
	if epicKey == "" {
		return NoEpicDisplay // never submitted to the resolver
	}
	t, ok := titles[epicKey]
	if !ok {
		return LookupFailedDisplay
	}
	switch t.Status {
	case TitleResolved:
		return t.Name
	case TitleNone:
		return NoTitleDisplay
	default:
		return LookupFailedDisplay
	}
}

func displayPoints(p *float64) string {
	if p == nil {
		return NoPointsDisplay
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
