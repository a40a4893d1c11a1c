package mock

import (
	"context"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// GithubClient mocks app.GithubClient.
type GithubClient struct {
	SearchRepositoriesFunc func(ctx context.Context, criteria app.Criteria) ([]app.Project, error)
	CommitsFunc            func(ctx context.Context, owner string, name string, count int) app.CommitsResult
}

// SearchRepositories returns repositories matching given criteria.
func (m *GithubClient) SearchRepositories(ctx context.Context, criteria app.Criteria) ([]app.Project, error) {
	if m.SearchRepositoriesFunc != nil {
		return m.SearchRepositoriesFunc(ctx, criteria)
	}

	return []app.Project{}, nil
}

// Commits returns commits for given repository.
func (m *GithubClient) Commits(ctx context.Context, owner string, name string, count int) app.CommitsResult {
	if m.CommitsFunc != nil {
		return m.CommitsFunc(ctx, owner, name, count)
	}

	return app.CommitsResult{Stop: app.StopSatisfied}
}
