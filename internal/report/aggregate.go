package report

import (
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// Entry is one repository with the commits fetched for it, in fetch order.
type Entry struct {
	Project app.Project
	Commits []app.Commit
}

// Aggregate collects per-repository commit batches for rendering.
// Enumeration order is insertion order, which the orchestrator keeps equal
// to discovery order. Adding the same repository twice replaces its commits
// without changing its position.
type Aggregate struct {
	order   []string
	entries map[string]*Entry
}

// NewAggregate creates empty Aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{
		entries: make(map[string]*Entry),
	}
}

// Add records commits fetched for given project.
func (a *Aggregate) Add(project app.Project, commits []app.Commit) {
	if _, ok := a.entries[project.FullName]; !ok {
		a.order = append(a.order, project.FullName)
	}
	a.entries[project.FullName] = &Entry{
		Project: project,
		Commits: commits,
	}
}

// Entries returns all entries in insertion order.
func (a *Aggregate) Entries() []*Entry {
	es := make([]*Entry, 0, len(a.order))
	for _, name := range a.order {
		es = append(es, a.entries[name])
	}

	return es
}

// Len returns the number of repositories collected.
func (a *Aggregate) Len() int {
	return len(a.order)
}

// TotalCommits returns the number of commits collected across all repositories.
func (a *Aggregate) TotalCommits() int {
	var n int
	for _, e := range a.entries {
		n += len(e.Commits)
	}

	return n
}
