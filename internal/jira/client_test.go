package jira

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIncrementalJQL(t *testing.T) {
	full := IncrementalJQL("PROJ", "")
	if full != `project = "PROJ" order by updated ASC` {
		t.Errorf("Unexpected full JQL: %s", full)
	}

	incr := IncrementalJQL("PROJ", "2024-03-20 10:00")
	if incr != `project = "PROJ" AND updated >= "2024-03-20 10:00" order by updated ASC` {
		t.Errorf("Unexpected incremental JQL: %s", incr)
	}
}

func TestFormatUpdatedForJQL(t *testing.T) {
	if got := FormatUpdatedForJQL("2024-03-20T14:30:45.123+0000"); got != "2024-03-20 14:30" {
		t.Errorf("Expected minute precision, got %q", got)
	}
	if got := FormatUpdatedForJQL(""); got != "" {
		t.Errorf("Empty input should stay empty, got %q", got)
	}
	if got := FormatUpdatedForJQL("garbage"); got != "" {
		t.Errorf("Unparseable input should yield empty, got %q", got)
	}
}

func TestSearchIssues_PassesPaginationParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("jql") != "project = \"PROJ\" order by updated ASC" {
			t.Errorf("Unexpected jql param: %q", q.Get("jql"))
		}
		if q.Get("startAt") != "100" || q.Get("maxResults") != "50" {
			t.Errorf("Unexpected pagination params: startAt=%q maxResults=%q", q.Get("startAt"), q.Get("maxResults"))
		}
		if q.Get("fields") != "*all" {
			t.Errorf("Expected the full field bag, got fields=%q", q.Get("fields"))
		}
		fmt.Fprint(w, `{"startAt":100,"maxResults":50,"total":151,"issues":[{"id":"1","key":"PROJ-1","fields":{"summary":"x"}}]}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIVersion: "2"})
	resp, err := client.SearchIssues(IncrementalJQL("PROJ", ""), 100, 50)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Total != 151 || len(resp.Issues) != 1 {
		t.Errorf("Unexpected response: total=%d issues=%d", resp.Total, len(resp.Issues))
	}
	if resp.Issues[0].Key != "PROJ-1" {
		t.Errorf("Unexpected issue key: %q", resp.Issues[0].Key)
	}
}

func TestSearchIssues_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/"})
	if _, err := client.SearchIssues("project = \"PROJ\"", 0, 100); err == nil {
		t.Fatal("Expected an error on 401")
	}
}

func TestIssueChangelog_ExpandedV2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-7" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("expand") != "changelog" {
			t.Errorf("Expected changelog expansion, got %q", r.URL.Query().Get("expand"))
		}
		fmt.Fprint(w, `{"key":"PROJ-7","changelog":{"histories":[
			{"id":"10","created":"2024-03-20T10:00:00.000+0000","items":[
				{"field":"status","fromString":"Open","toString":"Done"}]}]}}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIVersion: "2"})
	histories, err := client.IssueChangelog("PROJ-7")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(histories) != 1 || len(histories[0].Items) != 1 {
		t.Fatalf("Unexpected changelog shape: %+v", histories)
	}
	if histories[0].Items[0].ToString != "Done" {
		t.Errorf("Unexpected item: %+v", histories[0].Items[0])
	}
}

func TestIssueChangelog_PagedV3(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/PROJ-8/changelog" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		start := r.URL.Query().Get("startAt")
		page++
		if start == "0" {
			fmt.Fprint(w, `{"startAt":0,"maxResults":100,"total":101,"values":[
				{"id":"1","created":"2024-03-20T10:00:00.000+0000","items":[{"field":"status","toString":"Open"}]}]}`)
			return
		}
		fmt.Fprint(w, `{"startAt":100,"maxResults":100,"total":101,"values":[
			{"id":"2","created":"2024-03-21T10:00:00.000+0000","items":[{"field":"status","toString":"Done"}]}]}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIVersion: "3"})
	histories, err := client.IssueChangelog("PROJ-8")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if page != 2 {
		t.Errorf("Expected 2 pages to be fetched, got %d", page)
	}
	if len(histories) != 2 {
		t.Errorf("Expected 2 entries across pages, got %d", len(histories))
	}
}
