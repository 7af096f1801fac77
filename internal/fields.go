package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
)

// missingValue is rendered for a cell whose field is absent or empty, so
// rows are never ragged.
const missingValue = "N/A"

// Column maps a Jira field to a spreadsheet column: the field id requested
// from the search API, the header label, and an extractor from an issue.
type Column struct {
	Key   string
	Label string

	value func(jira.Issue) string
}

// Cell returns the rendered cell value for an issue, substituting
// missingValue for absent or empty fields.
func (c Column) Cell(issue jira.Issue) string {
	v := c.value(issue)
	if v == "" {
		return missingValue
	}
	return v
}

// knownColumns is the registry of canonical columns, keyed by field id.
var knownColumns = map[string]Column{
	"key": {Key: "key", Label: "Issue Key", value: func(i jira.Issue) string {
		return i.Key
	}},
	"summary": {Key: "summary", Label: "Summary", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return f.Summary
		}
		return ""
	}},
	"status": {Key: "status", Label: "Status", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.Status != nil {
			return f.Status.Name
		}
		return ""
	}},
	"priority": {Key: "priority", Label: "Priority", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.Priority != nil {
			return f.Priority.Name
		}
		return ""
	}},
	"issuetype": {Key: "issuetype", Label: "Issue Type", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return f.Type.Name
		}
		return ""
	}},
	"created": {Key: "created", Label: "Created", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return formatTime(f.Created)
		}
		return ""
	}},
	"updated": {Key: "updated", Label: "Updated", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return formatTime(f.Updated)
		}
		return ""
	}},
	"resolutiondate": {Key: "resolutiondate", Label: "Resolved", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return formatTime(f.Resolutiondate)
		}
		return ""
	}},
	"assignee": {Key: "assignee", Label: "Assignee", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return userName(f.Assignee)
		}
		return ""
	}},
	"reporter": {Key: "reporter", Label: "Reporter", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return userName(f.Reporter)
		}
		return ""
	}},
	"project": {Key: "project", Label: "Project", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			if f.Project.Name != "" {
				return f.Project.Name
			}
			return f.Project.Key
		}
		return ""
	}},
	"fixVersions": {Key: "fixVersions", Label: "Fix Versions", value: func(i jira.Issue) string {
		f := i.Fields
		if f == nil {
			return ""
		}
		names := make([]string, 0, len(f.FixVersions))
		for _, v := range f.FixVersions {
			if v != nil {
				names = append(names, v.Name)
			}
		}
		return strings.Join(names, ", ")
	}},
	"components": {Key: "components", Label: "Components", value: func(i jira.Issue) string {
		f := i.Fields
		if f == nil {
			return ""
		}
		names := make([]string, 0, len(f.Components))
		for _, c := range f.Components {
			if c != nil {
				names = append(names, c.Name)
			}
		}
		return strings.Join(names, ", ")
	}},
	"labels": {Key: "labels", Label: "Labels", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return strings.Join(f.Labels, ", ")
		}
		return ""
	}},
	"environment": {Key: "environment", Label: "Environment", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return f.Environment
		}
		return ""
	}},
	"resolution": {Key: "resolution", Label: "Resolution", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.Resolution != nil {
			return f.Resolution.Name
		}
		return ""
	}},
	"timespent": {Key: "timespent", Label: "Time Spent", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.TimeSpent > 0 {
			return formatSeconds(f.TimeSpent)
		}
		return ""
	}},

	// Not part of the default export, but reachable via --fields and
	// --all-fields. These are parsed into typed issue fields by the Jira
	// client, so the generic unknown-field fallback would miss them.
	"description": {Key: "description", Label: "Description", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return f.Description
		}
		return ""
	}},
	"duedate": {Key: "duedate", Label: "Due Date", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return formatDate(f.Duedate)
		}
		return ""
	}},
	"creator": {Key: "creator", Label: "Creator", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil {
			return userName(f.Creator)
		}
		return ""
	}},
	"timeestimate": {Key: "timeestimate", Label: "Remaining Estimate", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.TimeEstimate > 0 {
			return formatSeconds(f.TimeEstimate)
		}
		return ""
	}},
	"timeoriginalestimate": {Key: "timeoriginalestimate", Label: "Original Estimate", value: func(i jira.Issue) string {
		if f := i.Fields; f != nil && f.TimeOriginalEstimate > 0 {
			return formatSeconds(f.TimeOriginalEstimate)
		}
		return ""
	}},
	"versions": {Key: "versions", Label: "Affects Versions", value: func(i jira.Issue) string {
		f := i.Fields
		if f == nil {
			return ""
		}
		names := make([]string, 0, len(f.AffectsVersions))
		for _, v := range f.AffectsVersions {
			if v != nil {
				names = append(names, v.Name)
			}
		}
		return strings.Join(names, ", ")
	}},
}

// defaultColumnOrder is the export column order when no fields are selected.
// It mirrors the tool's canonical field set.
var defaultColumnOrder = []string{
	"key", "summary", "status", "priority", "issuetype",
	"created", "updated", "resolutiondate", "assignee", "reporter",
	"project", "fixVersions", "components", "labels",
	"environment", "resolution", "timespent",
}

// DefaultColumns returns the canonical column set in export order.
func DefaultColumns() []Column {
	cols := make([]Column, 0, len(defaultColumnOrder))
	for _, key := range defaultColumnOrder {
		cols = append(cols, knownColumns[key])
	}
	return cols
}

// ResolveColumns maps user-selected field ids to columns. Ids not in the
// registry (custom fields like customfield_10042) fall back to a generic
// extractor over the issue's unknown-field map, labeled with the id itself.
func ResolveColumns(keys []string) []Column {
	cols := make([]Column, 0, len(keys))
	for _, key := range keys {
		cols = append(cols, ColumnFor(key, key))
	}
	return cols
}

// ColumnFor returns the registry column for a field id, or a generic
// unknown-field column with the given label.
func ColumnFor(key, label string) Column {
	if col, ok := knownColumns[key]; ok {
		return col
	}
	return Column{
		Key:   key,
		Label: label,
		value: func(i jira.Issue) string {
			if i.Fields == nil || i.Fields.Unknowns == nil {
				return ""
			}
			v, ok := i.Fields.Unknowns[key]
			if !ok {
				return ""
			}
			return renderUnknown(v)
		},
	}
}

// SearchFields returns the field ids to request from the search API for a
// column set. The issue key is always present in search results, so "key"
// is not a requestable field.
func SearchFields(cols []Column) []string {
	fields := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.Key == "key" {
			continue
		}
		fields = append(fields, col.Key)
	}
	return fields
}

// Header returns the header row for a column set.
func Header(cols []Column) []string {
	labels := make([]string, len(cols))
	for i, col := range cols {
		labels[i] = col.Label
	}
	return labels
}

// Rows flattens issues into spreadsheet rows, one row per issue.
func Rows(issues []jira.Issue, cols []Column) [][]string {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.Cell(issue)
		}
		rows[i] = row
	}
	return rows
}

func formatDate(d jira.Date) string {
	tt := time.Time(d)
	if tt.IsZero() {
		return ""
	}
	return tt.Format("2006-01-02")
}

func formatTime(t jira.Time) string {
	tt := time.Time(t)
	if tt.IsZero() {
		return ""
	}
	return tt.Format(time.RFC3339)
}

// formatSeconds renders a Jira time-tracking duration (seconds) as "1h 30m".
func formatSeconds(secs int) string {
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// renderUnknown renders an arbitrary JSON field value. Jira option objects
// carry their display text under "value", "name", or "displayName".
func renderUnknown(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := renderUnknown(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, k := range []string{"value", "name", "displayName"} {
			if s, ok := val[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func userName(u *jira.User) string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.EmailAddress
}
