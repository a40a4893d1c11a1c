package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GithubClient returns repositories and their commit histories.
type GithubClient interface {
	SearchRepositories(ctx context.Context, criteria Criteria) ([]Project, error)
	Commits(ctx context.Context, owner string, name string, count int) CommitsResult
}

// Reporter renders report artifacts for collected data.
type Reporter interface {
	Write(entries []ProjectCommits) error
}

// Service is main apps entry point. Runs the whole analysis pipeline.
type Service struct {
	githubClient GithubClient
	reporter     Reporter
	l            logrus.FieldLogger
}

// NewService creates new Service instance.
func NewService(githubClient GithubClient, reporter Reporter, l logrus.FieldLogger) *Service {
	return &Service{
		githubClient: githubClient,
		reporter:     reporter,
		l:            l,
	}
}

// Run executes one analysis: search repositories, fetch their commits one
// repository at a time, render all report views and return the summary.
//
// A repository whose fetch comes up short never aborts the run; only a
// search that matched nothing does. When the context is canceled mid-run,
// reports are still written from whatever was collected.
func (s *Service) Run(ctx context.Context, criteria Criteria) (Summary, error) {
	if criteria.Language == "" {
		return Summary{}, InvalidRequestError("language cannot be empty")
	}
	if criteria.MaxProjects <= 0 {
		return Summary{}, InvalidRequestError("max projects must be greater than zero")
	}
	if criteria.CommitsPerProject <= 0 {
		return Summary{}, InvalidRequestError("commits per project must be greater than zero")
	}
	if criteria.MinStars < 0 {
		return Summary{}, InvalidRequestError("min stars cannot be negative")
	}

	s.l.Infof("searching %s repositories with at least %d stars", criteria.Language, criteria.MinStars)

	projects, err := s.githubClient.SearchRepositories(ctx, criteria)
	if len(projects) == 0 {
		if err != nil {
			return Summary{}, errors.Wrap(err, "searching repositories")
		}
		return Summary{}, NoProjectsError("no repositories matched the search criteria")
	}
	if err != nil {
		// Partial search results are still worth analyzing.
		s.l.Warnf("repository search ended early with %d of %d repositories: %v", len(projects), criteria.MaxProjects, err)
	}

	summary := Summary{Projects: len(projects)}
	var entries []ProjectCommits

	for i, p := range projects {
		if ctx.Err() != nil {
			s.l.Warnf("run interrupted, finalizing reports from %d repositories", len(entries))
			break
		}

		s.l.Infof("[%d/%d] fetching commits of %s", i+1, len(projects), p.FullName)

		result := s.githubClient.Commits(ctx, p.OwnerLogin, p.Name, criteria.CommitsPerProject)

		summary.Repos = append(summary.Repos, RepoSummary{
			FullName: p.FullName,
			Stars:    p.Stars,
			Expected: criteria.CommitsPerProject,
			Actual:   len(result.Commits),
			Stop:     result.Stop,
		})
		summary.ExpectedCommits += criteria.CommitsPerProject
		summary.ActualCommits += len(result.Commits)

		if len(result.Commits) > 0 {
			entries = append(entries, ProjectCommits{Project: p, Commits: result.Commits})
		}
	}

	if len(entries) > 0 {
		if err := s.reporter.Write(entries); err != nil {
			return summary, errors.Wrap(err, "writing reports")
		}
	}

	return summary, nil
}
