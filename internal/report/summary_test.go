package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	sum := app.Summary{
		Projects:        2,
		ExpectedCommits: 40,
		ActualCommits:   23,
		Repos: []app.RepoSummary{
			{FullName: "owner/alpha", Stars: 151234, Expected: 20, Actual: 20, Stop: app.StopSatisfied},
			{FullName: "owner/beta", Stars: 2000, Expected: 20, Actual: 3, Stop: app.StopShortPage},
		},
	}

	var b strings.Builder
	WriteSummary(&b, sum)
	out := b.String()

	assert.Contains(t, out, "owner/alpha")
	assert.Contains(t, out, "151,234")
	assert.Contains(t, out, "owner/beta")
	assert.Contains(t, out, string(app.StopShortPage))
	assert.Contains(t, out, "under target")
	assert.Contains(t, strings.ToUpper(out), "2 PROJECTS")
	assert.Contains(t, out, "23")

	// Only the shortfall row carries the marker.
	assert.Equal(t, 1, strings.Count(out, "under target"))
}
