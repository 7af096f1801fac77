package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// newSearchServer serves GET /rest/api/2/search over a fixed set of issue
// keys, paginating honestly by startAt/maxResults. pageCap further limits
// the page size the way Jira's server-side cap does.
func newSearchServer(t *testing.T, keys []string, pageCap int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			http.NotFound(w, r)
			return
		}

		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		if maxResults <= 0 || maxResults > pageCap {
			maxResults = pageCap
		}

		if startAt > len(keys) {
			startAt = len(keys)
		}
		end := startAt + maxResults
		if end > len(keys) {
			end = len(keys)
		}

		issues := make([]map[string]any, 0, end-startAt)
		for i := startAt; i < end; i++ {
			issues = append(issues, map[string]any{
				"id":  strconv.Itoa(10000 + i),
				"key": keys[i],
				"fields": map[string]any{
					"summary": fmt.Sprintf("summary for %s", keys[i]),
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"startAt":    startAt,
			"maxResults": maxResults,
			"total":      len(keys),
			"issues":     issues,
		})
	}))
}

func testKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("PROJ-%d", i+1)
	}
	return keys
}

func newSearchClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := New(serverURL, Credentials{Username: "dev@example.com", APIToken: "tok"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSearchAll_PaginatesWithoutDuplicatesOrGaps(t *testing.T) {
	keys := testKeys(7)
	srv := newSearchServer(t, keys, 3)
	defer srv.Close()

	c := newSearchClient(t, srv.URL)
	issues, err := c.SearchAll("project = PROJ", nil, 0)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(issues) != len(keys) {
		t.Fatalf("got %d issues, want %d", len(issues), len(keys))
	}
	for i, issue := range issues {
		if issue.Key != keys[i] {
			t.Fatalf("issue %d: key = %q, want %q", i, issue.Key, keys[i])
		}
	}
}

func TestSearchAll_CapTrimsFinalPage(t *testing.T) {
	srv := newSearchServer(t, testKeys(10), 4)
	defer srv.Close()

	c := newSearchClient(t, srv.URL)
	issues, err := c.SearchAll("project = PROJ", nil, 6)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(issues) != 6 {
		t.Fatalf("got %d issues, want 6", len(issues))
	}
	if issues[5].Key != "PROJ-6" {
		t.Fatalf("last issue = %q, want PROJ-6", issues[5].Key)
	}
}

func TestSearchAll_EmptyResult(t *testing.T) {
	srv := newSearchServer(t, nil, 50)
	defer srv.Close()

	c := newSearchClient(t, srv.URL)
	issues, err := c.SearchAll("project = EMPTY", nil, 0)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("got %d issues, want 0", len(issues))
	}
}

func TestSearchAll_RejectsEmptyJQL(t *testing.T) {
	c := newSearchClient(t, "https://jira.test.local")
	if _, err := c.SearchAll("   ", nil, 0); err == nil {
		t.Fatal("expected error for blank JQL")
	}
}

func TestSearchAll_BadJQLReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errorMessages":["Field 'banana' does not exist."],"errors":{}}`)
	}))
	defer srv.Close()

	c := newSearchClient(t, srv.URL)
	_, err := c.SearchAll("banana = 1", nil, 0)
	if err == nil {
		t.Fatal("expected error for bad JQL")
	}
	if !IsBadRequest(err) {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}
