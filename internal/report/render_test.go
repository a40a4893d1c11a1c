package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testAggregate() *Aggregate {
	agg := NewAggregate()
	agg.Add(
		app.Project{
			Name:        "alpha",
			FullName:    "owner/alpha",
			OwnerLogin:  "owner",
			URL:         "https://github.test/owner/alpha",
			Description: "First project",
			Stars:       151234,
			Language:    "C",
			CreatedAt:   "2015-04-01T10:00:00Z",
			UpdatedAt:   "2024-06-01T10:00:00Z",
		},
		[]app.Commit{
			{
				ShortID:    "aaaaaaa",
				Message:    "fix: first line\n\nbody text\r\nwith more lines",
				AuthorName: "Alice",
				AuthorDate: "2024-06-15T10:00:00Z",
				URL:        "https://github.test/c/aaaaaaa",
			},
			{
				ShortID:    "bbbbbbb",
				Message:    "older change",
				AuthorName: "Bob",
				AuthorDate: "2024-06-10T10:00:00Z",
				URL:        "https://github.test/c/bbbbbbb",
			},
		},
	)
	agg.Add(
		app.Project{
			Name:       "beta",
			FullName:   "owner/beta",
			OwnerLogin: "owner",
			URL:        "https://github.test/owner/beta",
			Stars:      2000,
		},
		[]app.Commit{
			{
				ShortID:    "ccccccc",
				Message:    "newest change of all",
				AuthorName: "Carol",
				AuthorDate: "2024-06-15T11:30:00Z",
				URL:        "https://github.test/c/ccccccc",
			},
			{
				ShortID:    "ddddddd",
				Message:    "timestamp is broken",
				AuthorName: "Dave",
				AuthorDate: "not-a-date",
				URL:        "https://github.test/c/ddddddd",
			},
		},
	)

	return agg
}

func parseRenderedCSV(t *testing.T, data []byte) [][]string {
	t.Helper()

	require.True(t, bytes.HasPrefix(data, utf8BOM), "rendered csv must start with a BOM")
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRenderProjectsCSV(t *testing.T) {
	t.Parallel()

	data, err := RenderProjectsCSV(testAggregate())
	require.NoError(t, err)

	records := parseRenderedCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"#", "full_name", "url", "stars", "description", "created_at", "updated_at"}, records[0])
	assert.Equal(t, []string{"1", "owner/alpha", "https://github.test/owner/alpha", "151234", "First project", "2015-04-01T10:00:00Z", "2024-06-01T10:00:00Z"}, records[1])
	assert.Equal(t, "2", records[2][0])
	assert.Equal(t, "owner/beta", records[2][1])
}

func TestRenderProjectCommitsCSV(t *testing.T) {
	t.Parallel()

	agg := testAggregate()
	data, err := RenderProjectCommitsCSV(agg.Entries()[0])
	require.NoError(t, err)

	records := parseRenderedCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"full_name", "project_url", "sha", "author", "date", "message", "commit_url"}, records[0])
	assert.Equal(t, []string{
		"owner/alpha",
		"https://github.test/owner/alpha",
		"aaaaaaa",
		"Alice",
		"2024-06-15T10:00:00Z",
		"fix: first line  body text with more lines",
		"https://github.test/c/aaaaaaa",
	}, records[1])
}

func TestRenderPictureCSV(t *testing.T) {
	t.Parallel()

	data, err := RenderPictureCSV(testAggregate(), testNow)
	require.NoError(t, err)

	records := parseRenderedCSV(t, data)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"title", "committed", "url"}, records[0])

	// Newest first across repositories, unparseable timestamps last.
	assert.Equal(t, "newest change of all", records[1][0])
	assert.Equal(t, "fix: first line", records[2][0])
	assert.Equal(t, "older change", records[3][0])
	assert.Equal(t, "timestamp is broken", records[4][0])

	assert.Equal(t, "Carol committed 30 minutes ago", records[1][1])
	assert.Equal(t, "Alice committed 2 hours ago", records[2][1])
	assert.Equal(t, "Bob committed 5 days ago", records[3][1])
	assert.Equal(t, "Dave committed not-a-date", records[4][1])
}

func TestRenderCombinedCSV(t *testing.T) {
	t.Parallel()

	data, err := RenderCombinedCSV(testAggregate(), testNow)
	require.NoError(t, err)

	records := parseRenderedCSV(t, data)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"project", "committed", "title", "commit_url"}, records[0])

	// Grouped by repository in discovery order, not by time.
	assert.Equal(t, "owner/alpha (https://github.test/owner/alpha)", records[1][0])
	assert.Equal(t, "Alice committed 2 hours ago", records[1][1])
	assert.Equal(t, "fix: first line", records[1][2])
	assert.Equal(t, "owner/beta (https://github.test/owner/beta)", records[3][0])
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out := string(RenderMarkdown(testAggregate(), testNow))

	assert.Contains(t, out, "# GitHub Commit Report")
	assert.Contains(t, out, "> Generated: 2024-06-15 12:00:00")
	assert.Contains(t, out, "## owner/alpha")
	assert.Contains(t, out, "- **Stars**: 151,234")
	assert.Contains(t, out, "- **Commits**: 2")
	assert.Contains(t, out, "| Committed | Author | Title | Link |")
	assert.Contains(t, out, "| 2 hours ago | Alice | fix: first line | [view](https://github.test/c/aaaaaaa) |")

	// Repository order follows the aggregate.
	assert.Less(t, strings.Index(out, "## owner/alpha"), strings.Index(out, "## owner/beta"))
}

func TestRenderMarkdownTruncatesLongTitles(t *testing.T) {
	t.Parallel()

	agg := NewAggregate()
	longTitle := strings.Repeat("x", 100)
	agg.Add(
		app.Project{FullName: "o/a", URL: "https://u"},
		[]app.Commit{{ShortID: "aaaaaaa", Message: longTitle, AuthorName: "A", AuthorDate: "2024-06-15T10:00:00Z", URL: "https://c"}},
	)

	out := string(RenderMarkdown(agg, testNow))
	assert.Contains(t, out, strings.Repeat("x", 77)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 78))
}

func TestRendererWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewRenderer(dir, testLogger())
	r.now = func() time.Time { return testNow }

	agg := testAggregate()
	entries := make([]app.ProjectCommits, 0, agg.Len())
	for _, e := range agg.Entries() {
		entries = append(entries, app.ProjectCommits{Project: e.Project, Commits: e.Commits})
	}

	require.NoError(t, r.Write(entries))

	for _, name := range []string{
		"projects.csv",
		"owner_alpha_commits.csv",
		"owner_beta_commits.csv",
		"recent_commits.csv",
		"all_commits.csv",
		"all_commits.md",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	// Writing the same data twice produces byte-identical files.
	before, err := os.ReadFile(filepath.Join(dir, "all_commits.md"))
	require.NoError(t, err)
	require.NoError(t, r.Write(entries))
	after, err := os.ReadFile(filepath.Join(dir, "all_commits.md"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
