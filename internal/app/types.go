package app

import "strings"

// Criteria selects repositories for a single run. Immutable once the run starts.
type Criteria struct {
	Language          string
	MinStars          int
	MaxProjects       int
	CommitsPerProject int
	Sort              string
	Order             string
}

// Project entity. Identity is FullName (owner/name).
type Project struct {
	Name        string
	FullName    string
	OwnerLogin  string
	URL         string
	Description string
	Stars       int
	Language    string
	CreatedAt   string
	UpdatedAt   string
}

// Commit entity. Timestamps are kept as the ISO-8601 strings the API returned.
type Commit struct {
	ShortID    string
	Message    string
	AuthorName string
	AuthorDate string
	URL        string
}

// Title returns the first line of the commit message, trimmed.
func (c Commit) Title() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(line)
}

// StopReason tells why a commit fetch stopped.
type StopReason string

// Fetch stop reasons. Only the first three mean the repository's history was
// read to the requested depth or to its natural end.
const (
	StopSatisfied           StopReason = "satisfied"
	StopEmptyPage           StopReason = "empty-page"
	StopShortPage           StopReason = "short-page"
	StopNotFound            StopReason = "not-found"
	StopEmptyRepository     StopReason = "empty-repository"
	StopPaginationExhausted StopReason = "pagination-exhausted"
	StopUnexpectedStatus    StopReason = "unexpected-status"
	StopTransportError      StopReason = "transport-error"
	StopAttemptsExhausted   StopReason = "attempts-exhausted"
)

// CommitsResult carries the commits obtained for one repository together with
// the reason fetching stopped. A shorter-than-requested slice is not an error.
type CommitsResult struct {
	Commits []Commit
	Stop    StopReason
}

// ProjectCommits associates one project with the commits fetched for it.
type ProjectCommits struct {
	Project Project
	Commits []Commit
}

// BugClassification is the verdict of the commit-message classifier.
type BugClassification struct {
	HasBugFix  bool
	Category   string
	Type       string
	Confidence float64
	Reasoning  string
}

// RepoSummary reports expected vs obtained commit counts for one repository.
type RepoSummary struct {
	FullName string
	Stars    int
	Expected int
	Actual   int
	Stop     StopReason
}

// UnderTarget reports whether the repository yielded fewer commits than requested.
func (r RepoSummary) UnderTarget() bool {
	return r.Actual < r.Expected
}

// Summary describes the outcome of a whole run.
type Summary struct {
	Projects        int
	ExpectedCommits int
	ActualCommits   int
	Repos           []RepoSummary
}
