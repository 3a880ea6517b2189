package spillover

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"spillover/internal/jira"
)

func TestParseSprint(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Sprint
		ok   bool
	}{
		{
			name: "greenhopper string",
			raw:  "com.atlassian.greenhopper.service.sprint.Sprint@3f[id=23,rapidViewId=5,state=CLOSED,name=Sprint 7,startDate=2025-07-01T00:00:00.000Z]",
			want: Sprint{ID: 23, Name: "Sprint 7", State: "CLOSED"},
			ok:   true,
		},
		{
			name: "name last",
			raw:  "Sprint@1[id=4,state=ACTIVE,name=Q3 Hardening]",
			want: Sprint{ID: 4, Name: "Q3 Hardening", State: "ACTIVE"},
			ok:   true,
		},
		{
			name: "name trimmed at next delimiter",
			raw:  "Sprint@1[id=4,name=Sprint 9,goal=ship it]",
			want: Sprint{ID: 4, Name: "Sprint 9"},
			ok:   true,
		},
		{
			name: "bare attribute list without brackets",
			raw:  "id=2,name=Sprint 2,state=FUTURE",
			want: Sprint{ID: 2, Name: "Sprint 2", State: "FUTURE"},
			ok:   true,
		},
		{
			name: "missing name is malformed",
			raw:  "Sprint@1[id=4,state=ACTIVE]",
			ok:   false,
		},
		{
			name: "empty string",
			raw:  "",
			ok:   false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseSprint(c.raw)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("sprint mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func fieldsFromJSON(t *testing.T, payload string) *jira.IssueFields {
	t.Helper()
	var f jira.IssueFields
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		t.Fatalf("unmarshal fields: %v", err)
	}
	return &f
}

func TestWorkedSprints_StringForm(t *testing.T) {
	f := fieldsFromJSON(t, `{"customfield_10020": [
		"Sprint@1[id=1,name=Sprint 1,state=CLOSED]",
		"Sprint@2[id=2,name=Sprint 2,state=ACTIVE]",
		"Sprint@1[id=1,name=Sprint 1,state=CLOSED]"
	]}`)

	got := workedSprints(f, "customfield_10020")
	want := []string{"Sprint 1", "Sprint 2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distinct sprints mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkedSprints_ObjectForm(t *testing.T) {
	f := fieldsFromJSON(t, `{"customfield_10020": [
		{"id": 1, "name": "Sprint 1", "state": "closed"},
		{"id": 2, "name": "Sprint 2", "state": "active"}
	]}`)

	got := workedSprints(f, "customfield_10020")
	want := []string{"Sprint 1", "Sprint 2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distinct sprints mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkedSprints_AbsentOrMalformed(t *testing.T) {
	if got := workedSprints(fieldsFromJSON(t, `{}`), "customfield_10020"); got != nil {
		t.Errorf("absent field: got %v, want nil", got)
	}
	// Non-array value is malformed, not fatal.
	f := fieldsFromJSON(t, `{"customfield_10020": "oops"}`)
	if got := workedSprints(f, "customfield_10020"); got != nil {
		t.Errorf("malformed field: got %v, want nil", got)
	}
	// Entries without a name are skipped.
	f = fieldsFromJSON(t, `{"customfield_10020": ["Sprint@1[id=9,state=ACTIVE]", "Sprint@2[id=2,name=Sprint 2]"]}`)
	got := workedSprints(f, "customfield_10020")
	want := []string{"Sprint 2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial parse mismatch (-want +got):\n%s", diff)
	}
}
