package mock

import (
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// Reporter mocks app.Reporter.
type Reporter struct {
	WriteFunc func(entries []app.ProjectCommits) error

	Writes [][]app.ProjectCommits
}

// Write records entries and fakes rendering reports.
func (m *Reporter) Write(entries []app.ProjectCommits) error {
	m.Writes = append(m.Writes, entries)
	if m.WriteFunc != nil {
		return m.WriteFunc(entries)
	}

	return nil
}
