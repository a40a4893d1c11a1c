package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

func TestCommitTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "single line",
			message: "fix: something",
			want:    "fix: something",
		},
		{
			name:    "multi line",
			message: "mm: fix page leak\n\nLong explanation\nover several lines",
			want:    "mm: fix page leak",
		},
		{
			name:    "trailing whitespace",
			message: "fix it  \nrest",
			want:    "fix it",
		},
		{
			name:    "windows line endings",
			message: "fix it\r\nrest",
			want:    "fix it",
		},
		{
			name:    "empty",
			message: "",
			want:    "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := app.Commit{Message: tt.message}
			assert.Equal(t, tt.want, c.Title())
		})
	}
}

func TestRepoSummaryUnderTarget(t *testing.T) {
	t.Parallel()

	assert.False(t, app.RepoSummary{Expected: 20, Actual: 20}.UnderTarget())
	assert.False(t, app.RepoSummary{Expected: 20, Actual: 25}.UnderTarget())
	assert.True(t, app.RepoSummary{Expected: 20, Actual: 3}.UnderTarget())
}

func TestClassifyStatsBugFixRate(t *testing.T) {
	t.Parallel()

	assert.Zero(t, app.ClassifyStats{}.BugFixRate())
	assert.InDelta(t, 50, app.ClassifyStats{Total: 10, BugFixes: 5}.BugFixRate(), 0.001)
}
