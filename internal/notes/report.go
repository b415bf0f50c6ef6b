package notes

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Report renders check entries as a markdown table.
type Report struct {
	Since    string
	Entries  []Entry
	WithURLs bool
}

// Render writes the report to w.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "# Components CommitID(after %s) & Release Notes info\n\n", r.Since)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Repo", "Branch", "CommitID", "Commit Date", "Release Notes Exists"}
	if r.WithURLs {
		header = append(header, "URL")
	}
	t.AppendHeader(header)

	for _, e := range r.Entries {
		row := table.Row{e.Repo, e.Ref, orDash(e.CommitID), orDash(e.CommitDate), e.Exists}
		if r.WithURLs {
			row = append(row, orDash(e.URL))
		}
		t.AppendRow(row)
	}

	t.RenderMarkdown()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
