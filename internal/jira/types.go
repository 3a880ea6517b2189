package jira

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// jiraTimeLayout is the timestamp format Jira emits for resolutiondate,
// created, and changelog entries.
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// Time represents a point in time serialized in Jira's timestamp format.
// RFC 3339 is accepted as a fallback on deserialization.
type Time time.Time

// Time returns the underlying time.Time value.
func (t Time) Time() time.Time { return time.Time(t) }

// MarshalJSON serializes Time in Jira's timestamp format.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(jiraTimeLayout))
}

// UnmarshalJSON deserializes a Jira timestamp string.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal jira time: %w", err)
	}
	parsed, err := time.Parse(jiraTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("unmarshal jira time %q: %w", s, err)
	}
	*t = Time(parsed)
	return nil
}

// --- Jira response types (hand-written, aligned with the REST v2 API) ---

// User represents a Jira user as embedded in issue fields.
type User struct {
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// NamedField is the {"name": ...} shape shared by status and issuetype.
type NamedField struct {
	Name string `json:"name,omitempty"`
}

// Field is one entry of the field-definition listing.
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Custom bool   `json:"custom,omitempty"`
}

// Issue represents one search-result entry or single-issue response.
type Issue struct {
	ID        string      `json:"id,omitempty"`
	Key       string      `json:"key"`
	Fields    IssueFields `json:"fields"`
	Changelog *Changelog  `json:"changelog,omitempty"`
}

// IssueFields holds the well-known issue fields plus the raw values of any
// customfield_* entries, which vary per Jira instance and are decoded on
// demand through the Custom* accessors.
type IssueFields struct {
	Summary        string      `json:"summary,omitempty"`
	Status         *NamedField `json:"status,omitempty"`
	IssueType      *NamedField `json:"issuetype,omitempty"`
	Assignee       *User       `json:"assignee,omitempty"`
	ResolutionDate *Time       `json:"resolutiondate,omitempty"`

	custom map[string]json.RawMessage
}

// UnmarshalJSON decodes the known fields and retains every customfield_*
// value as raw JSON.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type known IssueFields
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = IssueFields(k)
	for key, val := range raw {
		if !strings.HasPrefix(key, "customfield_") {
			continue
		}
		if f.custom == nil {
			f.custom = map[string]json.RawMessage{}
		}
		f.custom[key] = val
	}
	return nil
}

// CustomRaw returns the raw JSON of a custom field, if present and non-null.
func (f *IssueFields) CustomRaw(id string) (json.RawMessage, bool) {
	v, ok := f.custom[id]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

// CustomString decodes a custom field holding a JSON string.
func (f *IssueFields) CustomString(id string) (string, bool) {
	raw, ok := f.CustomRaw(id)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// CustomFloat decodes a custom field holding a JSON number.
func (f *IssueFields) CustomFloat(id string) (float64, bool) {
	raw, ok := f.CustomRaw(id)
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// Changelog is the expanded change history of an issue.
type Changelog struct {
	Histories []History `json:"histories"`
}

// History is one changelog entry: a set of field changes made together.
type History struct {
	Created *Time         `json:"created,omitempty"`
	Items   []HistoryItem `json:"items"`
}

// HistoryItem is a single field change within a history entry.
type HistoryItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString,omitempty"`
	ToString   string `json:"toString,omitempty"`
}

// SearchResult is the paginated envelope of GET /rest/api/2/search.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// ErrorRS is the standard Jira error response shape.
type ErrorRS struct {
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}
