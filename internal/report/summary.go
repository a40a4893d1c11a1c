package report

import (
	"fmt"
	"io"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteSummary renders the run summary table. Shortfalls against the
// requested commit count are marked so they are never silently hidden.
func WriteSummary(w io.Writer, sum app.Summary) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	tbl.AppendHeader(table.Row{"#", "Repository", "Stars", "Expected", "Actual", "Stop", ""})
	for i, r := range sum.Repos {
		var flag string
		if r.UnderTarget() {
			flag = "under target"
		}
		tbl.AppendRow(table.Row{
			i + 1,
			r.FullName,
			humanize.Comma(int64(r.Stars)),
			r.Expected,
			r.Actual,
			string(r.Stop),
			flag,
		})
	}
	tbl.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d projects", sum.Projects),
		"",
		sum.ExpectedCommits,
		sum.ActualCommits,
		"",
		"",
	})

	tbl.Render()
}
