package spillover

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"spillover/internal/jira"
)

// pipelineServer serves a two-page search result and the epic lookup the
// pipeline will issue for it.
func pipelineServer(t *testing.T) *httptest.Server {
	t.Helper()

	// PROJ-1 qualifies. PROJ-2 only ever saw one sprint. PROJ-3 qualifies
	// on sprint counts but was resolved outside the window.
	pageOne := `{
		"startAt": 0, "maxResults": 2, "total": 3,
		"issues": [
			{
				"id": "1", "key": "PROJ-1",
				"fields": {
					"summary": "carried over",
					"status": {"name": "In Progress"},
					"issuetype": {"name": "Story"},
					"assignee": {"displayName": "Alice Doe"},
					"customfield_10020": [
						"com.atlassian.greenhopper.service.sprint.Sprint@1a[id=41,name=Sprint 1,state=CLOSED]",
						"com.atlassian.greenhopper.service.sprint.Sprint@1b[id=42,name=Sprint 2,state=ACTIVE]"
					],
					"customfield_10014": "PROJ-100",
					"customfield_10016": 3
				},
				"changelog": {"histories": [
					{"items": [{"field": "Sprint", "toString": "Sprint 1"}]},
					{"items": [{"field": "Sprint", "toString": "Sprint 2"}]}
				]}
			},
			{
				"id": "2", "key": "PROJ-2",
				"fields": {
					"summary": "single sprint",
					"customfield_10020": [
						"com.atlassian.greenhopper.service.sprint.Sprint@1c[id=41,name=Sprint 1,state=CLOSED]"
					]
				},
				"changelog": {"histories": [
					{"items": [{"field": "Sprint", "toString": "Sprint 1"}]},
					{"items": [{"field": "Sprint", "toString": ""}]}
				]}
			}
		]
	}`
	pageTwo := `{
		"startAt": 2, "maxResults": 2, "total": 3,
		"issues": [
			{
				"id": "3", "key": "PROJ-3",
				"fields": {
					"summary": "resolved long ago",
					"resolutiondate": "2025-07-01T10:00:00.000+0000",
					"customfield_10020": [
						"com.atlassian.greenhopper.service.sprint.Sprint@1d[id=41,name=Sprint 1,state=CLOSED]",
						"com.atlassian.greenhopper.service.sprint.Sprint@1e[id=42,name=Sprint 2,state=CLOSED]"
					]
				},
				"changelog": {"histories": [
					{"items": [{"field": "Sprint", "toString": "Sprint 1"}]},
					{"items": [{"field": "Sprint", "toString": "Sprint 2"}]}
				]}
			}
		]
	}`

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		if startAt == 0 {
			fmt.Fprint(w, pageOne)
			return
		}
		fmt.Fprint(w, pageTwo)
	})
	mux.HandleFunc("/rest/api/2/issue/PROJ-100", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "100", "key": "PROJ-100", "fields": {"customfield_10011": "Checkout revamp"}}`)
	})
	return httptest.NewServer(mux)
}

func testParams() Params {
	return Params{
		Project:          "PROJ",
		WindowDays:       10,
		PageSize:         2,
		ExcludedTypes:    []string{"Epic", "Risk"},
		SprintField:      "customfield_10020",
		EpicLinkField:    "customfield_10014",
		EpicNameField:    "customfield_10011",
		StoryPointsField: "customfield_10016",
		EpicWorkers:      1,
		Now:              time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	srv := pipelineServer(t)
	defer srv.Close()

	client, err := jira.New(srv.URL, jira.Credential{})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Run(context.Background(), client, testParams(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Row{{
		WorkedSprints: 2, SprintChanges: 2, Type: "Story", Key: "PROJ-1",
		Summary: "carried over", Status: "In Progress",
		EpicKey: "PROJ-100", EpicTitle: "Checkout revamp",
		Points: "3", Assignee: "Alice Doe",
	}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SearchFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages": ["boom"]}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := jira.New(srv.URL, jira.Credential{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Run(context.Background(), client, testParams(), nil); err == nil {
		t.Fatal("expected search failure to abort the run")
	} else if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry the server message", err)
	}
}

func TestRun_NoMatchesYieldsEmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"startAt": 0, "maxResults": 50, "total": 0, "issues": []}`)
	}))
	defer srv.Close()

	client, err := jira.New(srv.URL, jira.Credential{})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Run(context.Background(), client, testParams(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
