package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

func TestAggregateKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	agg := NewAggregate()
	agg.Add(app.Project{FullName: "o/zeta"}, []app.Commit{{ShortID: "aaaaaaa"}})
	agg.Add(app.Project{FullName: "o/alpha"}, []app.Commit{{ShortID: "bbbbbbb"}, {ShortID: "ccccccc"}})

	entries := agg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "o/zeta", entries[0].Project.FullName)
	assert.Equal(t, "o/alpha", entries[1].Project.FullName)
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, 3, agg.TotalCommits())
}

func TestAggregateReaddReplacesCommits(t *testing.T) {
	t.Parallel()

	agg := NewAggregate()
	agg.Add(app.Project{FullName: "o/a"}, []app.Commit{{ShortID: "aaaaaaa"}})
	agg.Add(app.Project{FullName: "o/b"}, []app.Commit{{ShortID: "bbbbbbb"}})
	agg.Add(app.Project{FullName: "o/a"}, []app.Commit{{ShortID: "ccccccc"}, {ShortID: "ddddddd"}})

	entries := agg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "o/a", entries[0].Project.FullName, "re-adding must not change position")
	assert.Len(t, entries[0].Commits, 2)
	assert.Equal(t, "ccccccc", entries[0].Commits[0].ShortID)
	assert.Equal(t, 3, agg.TotalCommits())
}
