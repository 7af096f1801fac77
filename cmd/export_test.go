package cmd

import (
	"testing"

	jira "github.com/andygrunwald/go-jira"
)

func TestResolveExportFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		out     string
		want    string
		wantErr bool
	}{
		{name: "explicit xlsx", format: "xlsx", out: "issues.csv", want: "xlsx"},
		{name: "explicit csv", format: "csv", out: "issues.xlsx", want: "csv"},
		{name: "inferred csv", format: "", out: "issues.csv", want: "csv"},
		{name: "inferred csv uppercase", format: "", out: "ISSUES.CSV", want: "csv"},
		{name: "inferred xlsx", format: "", out: "issues.xlsx", want: "xlsx"},
		{name: "unknown extension defaults to xlsx", format: "", out: "issues.dat", want: "xlsx"},
		{name: "bad format", format: "ods", out: "issues.ods", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveExportFormat(tt.format, tt.out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnsForServerFields(t *testing.T) {
	fields := []jira.Field{
		{ID: "summary", Name: "Summary", Navigable: true},
		{ID: "customfield_10042", Name: "Story Points", Navigable: true, Custom: true},
		{ID: "comment", Name: "Comment", Navigable: false},
		{ID: "", Name: "broken"},
	}

	cols := columnsForServerFields(fields)

	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3 (key + 2 navigable)", len(cols))
	}
	if cols[0].Key != "key" {
		t.Fatalf("first column = %q, want key", cols[0].Key)
	}
	if cols[1].Key != "summary" || cols[1].Label != "Summary" {
		t.Fatalf("unexpected summary column: %+v", cols[1])
	}
	if cols[2].Key != "customfield_10042" || cols[2].Label != "Story Points" {
		t.Fatalf("unexpected custom column: %+v", cols[2])
	}
}
