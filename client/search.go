package client

import (
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
)

// searchPageSize is the page size requested from the search endpoint.
// Jira caps pages at 100 issues regardless of the requested maxResults.
const searchPageSize = 100

// SearchAll runs a JQL query and paginates through the results. fields
// restricts the issue fields returned by the server; nil or empty means
// server defaults. max caps the total number of issues; max <= 0 fetches
// everything.
func (c *Client) SearchAll(jql string, fields []string, max int) ([]jira.Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, fmt.Errorf("JQL query must not be empty")
	}

	var issues []jira.Issue
	startAt := 0
	for {
		pageSize := searchPageSize
		if max > 0 && max-len(issues) < pageSize {
			pageSize = max - len(issues)
		}

		opts := &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: pageSize,
			Fields:     fields,
		}
		page, resp, err := c.jc.Issue.Search(jql, opts)
		if err != nil {
			return nil, wrapError(resp, err)
		}
		if len(page) == 0 {
			break
		}

		issues = append(issues, page...)
		startAt += len(page)

		if max > 0 && len(issues) >= max {
			issues = issues[:max]
			break
		}
		if resp != nil && startAt >= resp.Total {
			break
		}
	}

	return issues, nil
}
