package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

// Summary aggregates the results of a smoke run.
type Summary struct {
	Results []Result
}

// Summarize builds a Summary from run results.
func Summarize(results []Result) Summary {
	return Summary{Results: results}
}

// Passed returns the number of fixtures that got a 2xx response.
func (s Summary) Passed() int {
	count := 0
	for _, r := range s.Results {
		if r.OK() {
			count++
		}
	}
	return count
}

// Failed returns the number of fixtures that errored or got a non-2xx
// response.
func (s Summary) Failed() int {
	return len(s.Results) - s.Passed()
}

// Render writes the run summary as a table.
func (s Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{"#", "Fixture", "Method", "Path", "Status", "Result"})
	for i, r := range s.Results {
		status := "-"
		if r.StatusCode != 0 {
			status = fmt.Sprintf("%d", r.StatusCode)
		}
		outcome := "ok"
		if !r.OK() {
			outcome = "failed"
		}
		t.AppendRow(table.Row{i + 1, r.Fixture.Name, r.Fixture.Method, r.Fixture.Path, status, outcome})
	}
	t.AppendFooter(table.Row{"", "", "", "", "passed", s.Passed()})
	t.AppendFooter(table.Row{"", "", "", "", "failed", s.Failed()})

	t.Render()
}
